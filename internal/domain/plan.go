package domain

import (
	"fmt"
	"time"
)

// TimeLayout is the wall-clock format used by plan blocks.
const TimeLayout = "15:04"

// PlanDateLayout is the sheet format for the plan date column.
const PlanDateLayout = "02/01/2006"

// SubmittedAtLayout is the sheet format for the submission timestamp.
const SubmittedAtLayout = "2006-01-02 15:04:05"

// PlanCustomer is one customer assigned to a plan task.
type PlanCustomer struct {
	Name    string `json:"name"`
	Contact string `json:"contact"`
	Biz     string `json:"biz"`
}

// PlanTask is one time-blocked activity entry of a staff member's daily
// plan. Times are HH:MM wall-clock strings.
type PlanTask struct {
	StartTime    string         `json:"start_time"`
	EndTime      string         `json:"end_time"`
	Activity     string         `json:"activity"`
	Location     string         `json:"location"`
	NumCustomers string         `json:"num_customers"`
	Customers    []PlanCustomer `json:"customers"`
}

// DefaultPlanTasks returns the three fixed time blocks every new plan
// starts with.
func DefaultPlanTasks() []PlanTask {
	return []PlanTask{
		{StartTime: "08:00", EndTime: "12:00", Customers: []PlanCustomer{}},
		{StartTime: "12:00", EndTime: "16:30", Customers: []PlanCustomer{}},
		{StartTime: "16:30", EndTime: "17:00", Customers: []PlanCustomer{}},
	}
}

// NextPlanTask derives the block appended by an "add task" action: it starts
// where the last block ends and runs for one hour.
func NextPlanTask(tasks []PlanTask) PlanTask {
	start := "08:00"
	if len(tasks) > 0 {
		start = tasks[len(tasks)-1].EndTime
	}
	end := start
	if t, err := time.Parse(TimeLayout, start); err == nil {
		end = t.Add(time.Hour).Format(TimeLayout)
	}
	return PlanTask{StartTime: start, EndTime: end, Customers: []PlanCustomer{}}
}

// Validate checks the task's time block.
func (t PlanTask) Validate() error {
	start, err := time.Parse(TimeLayout, t.StartTime)
	if err != nil {
		return fmt.Errorf("invalid start_time %q", t.StartTime)
	}
	end, err := time.Parse(TimeLayout, t.EndTime)
	if err != nil {
		return fmt.Errorf("invalid end_time %q", t.EndTime)
	}
	if !end.After(start) {
		return fmt.Errorf("end_time %q not after start_time %q", t.EndTime, t.StartTime)
	}
	return nil
}
