package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultPlanTasks(t *testing.T) {
	tasks := DefaultPlanTasks()
	require.Len(t, tasks, 3)

	assert.Equal(t, "08:00", tasks[0].StartTime)
	assert.Equal(t, "12:00", tasks[0].EndTime)
	assert.Equal(t, "12:00", tasks[1].StartTime)
	assert.Equal(t, "16:30", tasks[1].EndTime)
	assert.Equal(t, "16:30", tasks[2].StartTime)
	assert.Equal(t, "17:00", tasks[2].EndTime)

	for _, task := range tasks {
		assert.Empty(t, task.Activity)
		assert.Empty(t, task.Customers)
		assert.NoError(t, task.Validate())
	}
}

func TestNextPlanTask_StartsAtPreviousEnd(t *testing.T) {
	next := NextPlanTask(DefaultPlanTasks())
	assert.Equal(t, "17:00", next.StartTime)
	assert.Equal(t, "18:00", next.EndTime)
}

func TestNextPlanTask_EmptyPlan(t *testing.T) {
	next := NextPlanTask(nil)
	assert.Equal(t, "08:00", next.StartTime)
	assert.Equal(t, "09:00", next.EndTime)
}

func TestPlanTaskValidate(t *testing.T) {
	valid := PlanTask{StartTime: "09:00", EndTime: "10:30"}
	assert.NoError(t, valid.Validate())

	assert.Error(t, PlanTask{StartTime: "morning", EndTime: "10:00"}.Validate())
	assert.Error(t, PlanTask{StartTime: "09:00", EndTime: "later"}.Validate())
	assert.Error(t, PlanTask{StartTime: "10:00", EndTime: "09:00"}.Validate())
	assert.Error(t, PlanTask{StartTime: "10:00", EndTime: "10:00"}.Validate())
}
