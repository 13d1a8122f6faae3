package quorum

import "testing"

func TestExpectedAnswers(t *testing.T) {
	tests := []struct {
		name      string
		policy    Policy
		groupSize int
		want      int
	}{
		{"one", One(), 5, 1},
		{"one ignores width", One(), 20, 1},
		{"majority of 5", Majority(), 5, 3},
		{"majority of 4", Majority(), 4, 3},
		{"majority of 1", Majority(), 1, 1},
		{"all of 5", All(), 5, 5},
		{"at least 4", AtLeastN(4), 5, 4},
		{"at least past width", AtLeastN(7), 5, 7},
		{"zero value is one", Policy{}, 5, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ExpectedAnswers(tt.policy, tt.groupSize); got != tt.want {
				t.Errorf("ExpectedAnswers(%v, %d) = %d, want %d",
					tt.policy, tt.groupSize, got, tt.want)
			}
		})
	}
}

// Majority must always be more than half and never more than the group.
func TestMajorityOf_Bounds(t *testing.T) {
	for n := 1; n <= 16; n++ {
		m := MajorityOf(n)
		if 2*m <= n {
			t.Errorf("MajorityOf(%d) = %d is not more than half", n, m)
		}
		if m > n {
			t.Errorf("MajorityOf(%d) = %d exceeds group size", n, m)
		}
	}
}

func TestPolicy_String(t *testing.T) {
	if One().String() != "one" || Majority().String() != "majority" ||
		All().String() != "all" || AtLeastN(3).String() != "at-least-3" {
		t.Error("unexpected policy string form")
	}
}
