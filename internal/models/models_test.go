package models

import "testing"

func TestParseProfileStatus(t *testing.T) {
	tests := []struct {
		in   string
		want ProfileStatus
		ok   bool
	}{
		{"approved", StatusApproved, true},
		{" REJECTED ", StatusRejected, true},
		{"Pending", StatusPending, true},
		{"archived", "", false},
		{"", "", false},
	}
	for _, tt := range tests {
		got, ok := ParseProfileStatus(tt.in)
		if got != tt.want || ok != tt.ok {
			t.Errorf("ParseProfileStatus(%q) = (%q, %v), want (%q, %v)", tt.in, got, ok, tt.want, tt.ok)
		}
	}
}

func TestParseTutorLevel(t *testing.T) {
	tests := []struct {
		in   string
		want TutorLevel
		ok   bool
	}{
		{"", LevelBeginner, true},
		{"expert", LevelExpert, true},
		{"Intermediate", LevelIntermediate, true},
		{"guru", "", false},
	}
	for _, tt := range tests {
		got, ok := ParseTutorLevel(tt.in)
		if got != tt.want || ok != tt.ok {
			t.Errorf("ParseTutorLevel(%q) = (%q, %v), want (%q, %v)", tt.in, got, ok, tt.want, tt.ok)
		}
	}
}

func TestParseRole(t *testing.T) {
	if r, ok := ParseRole("admin"); !ok || r != RoleAdmin {
		t.Fatalf("ParseRole(admin) = %q, %v", r, ok)
	}
	if _, ok := ParseRole("client"); ok {
		t.Fatal("unknown role must not parse")
	}
}

func TestActionForStatus(t *testing.T) {
	if ActionForStatus(StatusApproved) != ActionApproveTutor ||
		ActionForStatus(StatusRejected) != ActionRejectTutor ||
		ActionForStatus(StatusPending) != ActionResetTutor {
		t.Fatal("unexpected action mapping")
	}
}

func TestIsPublic(t *testing.T) {
	if !(&TutorProfile{Status: StatusApproved, IsVerified: true}).IsPublic() {
		t.Fatal("approved and verified profile must be public")
	}
	if (&TutorProfile{Status: StatusPending}).IsPublic() {
		t.Fatal("pending profile must not be public")
	}
}
