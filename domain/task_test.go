package domain

import (
	"reflect"
	"testing"
)

func TestVisibleUserIDs(t *testing.T) {
	tests := []struct {
		name string
		task Task
		want []string
	}{
		{
			name: "owner only",
			task: Task{OwnerID: "u1"},
			want: []string{"u1"},
		},
		{
			name: "owner plus tagged",
			task: Task{OwnerID: "u1", TaggedUserIDs: []string{"u2", "u3"}},
			want: []string{"u1", "u2", "u3"},
		},
		{
			name: "owner tagged on own task",
			task: Task{OwnerID: "u1", TaggedUserIDs: []string{"u1", "u2"}},
			want: []string{"u1", "u2"},
		},
		{
			name: "duplicate tags",
			task: Task{OwnerID: "u1", TaggedUserIDs: []string{"u2", "u2"}},
			want: []string{"u1", "u2"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.task.VisibleUserIDs(); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("VisibleUserIDs() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestValidTaskStatus(t *testing.T) {
	for _, status := range []string{StatusPending, StatusInProgress, StatusCompleted} {
		if !ValidTaskStatus(status) {
			t.Errorf("ValidTaskStatus(%q) = false", status)
		}
	}
	for _, status := range []string{"", "DONE", "pending"} {
		if ValidTaskStatus(status) {
			t.Errorf("ValidTaskStatus(%q) = true", status)
		}
	}
}

func TestExecutionProgress(t *testing.T) {
	tests := []struct {
		name   string
		counts DashboardCounts
		want   int
	}{
		{"empty", DashboardCounts{}, 0},
		{"only pending", DashboardCounts{Pending: 7}, 0},
		{"one of three", DashboardCounts{Completed: 1, InProgress: 1, Overdue: 1}, 33},
		{"two of three", DashboardCounts{Completed: 2, InProgress: 1}, 67},
		{"all done", DashboardCounts{Completed: 4}, 100},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.counts.ExecutionProgress(); got != tt.want {
				t.Errorf("ExecutionProgress() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestDashboardCountsTotal(t *testing.T) {
	counts := DashboardCounts{Completed: 1, Overdue: 2, InProgress: 3, Pending: 4}
	if got := counts.Total(); got != 10 {
		t.Errorf("Total() = %d, want 10", got)
	}
}
