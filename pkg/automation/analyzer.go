package automation

import (
	"sort"

	"github.com/shopmate/shopmate/pkg/models"
	"github.com/shopmate/shopmate/pkg/stages"
)

// bottleneckThreshold is the number of queued tasks a stage must exceed
// before it is reported as a bottleneck.
const bottleneckThreshold = 3

// Bottleneck is a stage with excess pending or blocked work queued.
type Bottleneck struct {
	Stage stages.ID `json:"stage"`
	Count int       `json:"count"`
}

// IdentifyBottlenecks groups pending and blocked tasks by stage and
// returns the stages with more than the threshold queued, most loaded
// first. Pure function: empty input yields empty output.
func IdentifyBottlenecks(tasks []models.Task) []Bottleneck {
	counts := make(map[stages.ID]int)

	for _, task := range tasks {
		if task.Status == models.TaskStatusPending || task.Status == models.TaskStatusBlocked {
			counts[task.Stage]++
		}
	}

	bottlenecks := make([]Bottleneck, 0)

	for stage, count := range counts {
		if count > bottleneckThreshold {
			bottlenecks = append(bottlenecks, Bottleneck{Stage: stage, Count: count})
		}
	}

	sort.SliceStable(bottlenecks, func(i, j int) bool {
		return bottlenecks[i].Count > bottlenecks[j].Count
	})

	return bottlenecks
}

// TaskMetrics summarizes the state of a task list.
type TaskMetrics struct {
	TotalTasks                 int     `json:"total_tasks"`
	CompletedTasks             int     `json:"completed_tasks"`
	PendingTasks               int     `json:"pending_tasks"`
	AverageCompletionTimeHours float64 `json:"average_completion_time_hours"`
	OnTimePercentage           float64 `json:"on_time_percentage"`
}

// ComputeTaskMetrics derives completion metrics. The completion time
// average only covers completed tasks with both start and completion
// timestamps; tasks missing either are excluded, not counted as zero.
// With no completed tasks both derived rates are zero.
func ComputeTaskMetrics(tasks []models.Task) TaskMetrics {
	metrics := TaskMetrics{TotalTasks: len(tasks)}

	var totalCompletionHours float64

	var timed, onTime int

	for _, task := range tasks {
		switch task.Status {
		case models.TaskStatusPending:
			metrics.PendingTasks++
		case models.TaskStatusCompleted:
			metrics.CompletedTasks++

			if task.StartedAt != nil && task.CompletedAt != nil {
				totalCompletionHours += task.CompletedAt.Sub(*task.StartedAt).Hours()
				timed++
			}

			if task.CompletedAt != nil && !task.CompletedAt.After(task.DueDate) {
				onTime++
			}
		}
	}

	if timed > 0 {
		metrics.AverageCompletionTimeHours = totalCompletionHours / float64(timed)
	}

	if metrics.CompletedTasks > 0 {
		metrics.OnTimePercentage = float64(onTime) / float64(metrics.CompletedTasks) * 100
	}

	return metrics
}
