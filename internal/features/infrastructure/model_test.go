package infrastructure

import "testing"

func completedSteps(done ...SetupStep) map[SetupStep]StepRecord {
	steps := NewStepMap()
	for _, s := range done {
		steps[s] = StepRecord{Completed: true}
	}
	return steps
}

func TestComputeProgress(t *testing.T) {
	tests := []struct {
		name string
		done []SetupStep
		want int
	}{
		{"none", nil, 0},
		{"one", []SetupStep{StepLaptop}, 20},
		{"two", []SetupStep{StepLaptop, StepEmail}, 40},
		{"four", []SetupStep{StepLaptop, StepEmail, StepWifi, StepIDCard}, 80},
		{"all", []SetupStep{StepLaptop, StepEmail, StepWifi, StepIDCard, StepBiometric}, 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ComputeProgress(completedSteps(tt.done...))
			if got != tt.want {
				t.Errorf("ComputeProgress() = %d, want %d", got, tt.want)
			}
		})
	}
}

// Progress must hit 100 exactly when every step is done, never earlier.
func TestProgressFullOnlyWhenAllComplete(t *testing.T) {
	steps := NewStepMap()
	for i, s := range StepOrder {
		steps[s] = StepRecord{Completed: true}
		progress := ComputeProgress(steps)
		if i < len(StepOrder)-1 && progress == 100 {
			t.Fatalf("progress reached 100 after %d of %d steps", i+1, len(StepOrder))
		}
	}
	if got := ComputeProgress(steps); got != 100 {
		t.Errorf("progress = %d after all steps, want 100", got)
	}
}

func TestNextIncompleteStep(t *testing.T) {
	tests := []struct {
		name     string
		done     []SetupStep
		want     SetupStep
		wantNext bool
	}{
		{"fresh request starts at laptop", nil, StepLaptop, true},
		{"skips completed prefix", []SetupStep{StepLaptop, StepEmail}, StepWifi, true},
		{"advances to biometric after first four", []SetupStep{StepLaptop, StepEmail, StepWifi, StepIDCard}, StepBiometric, true},
		{"out of order completion picks earliest gap", []SetupStep{StepLaptop, StepWifi}, StepEmail, true},
		{"all done", []SetupStep{StepLaptop, StepEmail, StepWifi, StepIDCard, StepBiometric}, "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, hasNext := NextIncompleteStep(completedSteps(tt.done...))
			if hasNext != tt.wantNext {
				t.Fatalf("NextIncompleteStep() hasNext = %v, want %v", hasNext, tt.wantNext)
			}
			if got != tt.want {
				t.Errorf("NextIncompleteStep() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestCanTransition(t *testing.T) {
	tests := []struct {
		from, to RequestStatus
		want     bool
	}{
		{StatusPending, StatusAssigned, true},
		{StatusAssigned, StatusInProgress, true},
		{StatusInProgress, StatusCompleted, true},
		{StatusAssigned, StatusPending, false},
		{StatusCompleted, StatusInProgress, false},
		{StatusPending, StatusInProgress, false},
		{StatusPending, StatusCompleted, false},
		{StatusCompleted, StatusCompleted, false},
	}

	for _, tt := range tests {
		if got := CanTransition(tt.from, tt.to); got != tt.want {
			t.Errorf("CanTransition(%s, %s) = %v, want %v", tt.from, tt.to, got, tt.want)
		}
	}
}

func TestStepRequiresNote(t *testing.T) {
	want := map[SetupStep]bool{
		StepLaptop:    true,
		StepEmail:     true,
		StepWifi:      false,
		StepIDCard:    true,
		StepBiometric: false,
	}
	for step, required := range want {
		if got := StepRequiresNote(step); got != required {
			t.Errorf("StepRequiresNote(%s) = %v, want %v", step, got, required)
		}
	}
}
