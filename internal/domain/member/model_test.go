package member_test

import (
	"testing"

	"gymdesk/internal/domain/member"
)

// TestMemberValidation tests validation of Member.
func TestMemberValidation(t *testing.T) {
	tests := []struct {
		name    string
		member  member.Member
		wantErr bool
	}{
		{
			name: "valid PT member",
			member: member.Member{
				ID:              "123",
				AdmissionNumber: "2026481",
				Name:            "Amit Kumar",
				Phone:           "9818012345",
				Address:         "12 MG Road, Delhi",
				GymPlan:         member.PlanPT,
			},
			wantErr: false,
		},
		{
			name: "valid Non-PT member",
			member: member.Member{
				ID:              "124",
				AdmissionNumber: "2026482",
				Name:            "Priya Singh",
				Phone:           "9818054321",
				Address:         "4 Park Street",
				GymPlan:         member.PlanNonPT,
			},
			wantErr: false,
		},
		{
			name: "name too short",
			member: member.Member{
				Name:    "A",
				Phone:   "9818012345",
				Address: "12 MG Road",
				GymPlan: member.PlanPT,
			},
			wantErr: true,
		},
		{
			name: "phone too short",
			member: member.Member{
				Name:    "Amit Kumar",
				Phone:   "12345",
				Address: "12 MG Road",
				GymPlan: member.PlanPT,
			},
			wantErr: true,
		},
		{
			name: "address too short",
			member: member.Member{
				Name:    "Amit Kumar",
				Phone:   "9818012345",
				Address: "x",
				GymPlan: member.PlanPT,
			},
			wantErr: true,
		},
		{
			name: "invalid plan",
			member: member.Member{
				Name:    "Amit Kumar",
				Phone:   "9818012345",
				Address: "12 MG Road",
				GymPlan: "Premium",
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.member.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Member.Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

// TestIsPersonalTraining tests the plan helper.
func TestIsPersonalTraining(t *testing.T) {
	m := member.Member{GymPlan: member.PlanPT}
	if !m.IsPersonalTraining() {
		t.Error("PT plan should report personal training")
	}
	m.GymPlan = member.PlanNonPT
	if m.IsPersonalTraining() {
		t.Error("Non-PT plan should not report personal training")
	}
}
