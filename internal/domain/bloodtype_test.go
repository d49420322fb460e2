package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeBloodType(t *testing.T) {
	tests := []struct {
		in   string
		want BloodType
	}{
		{"O+", BloodTypeOPos},
		{"ab-", BloodTypeABNeg},
		{"  b+ ", BloodTypeBPos},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeBloodType(tt.in))
		})
	}
}

func TestBloodType_IsValid(t *testing.T) {
	for _, bt := range BloodTypes {
		assert.True(t, bt.IsValid(), bt)
	}

	assert.False(t, BloodType("C+").IsValid())
	assert.False(t, BloodType("o+").IsValid())
	assert.False(t, BloodType("").IsValid())
}

func TestRole(t *testing.T) {
	assert.True(t, RoleHospital.IsValid())
	assert.False(t, Role("operator").IsValid())

	assert.True(t, RoleAdmin.In(RoleHospital, RoleAdmin))
	assert.False(t, RoleUser.In(RoleHospital))
	assert.False(t, Role("").In(RoleHospital))
}
