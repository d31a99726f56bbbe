package sms

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeIndianNumber(t *testing.T) {
	tests := map[string]string{
		"9876543210":      "+919876543210",
		"09876543210":     "+919876543210",
		"919876543210":    "+919876543210",
		"+91 98765-43210": "+919876543210",
		"+14155550100":    "+14155550100",
		"":                "",
	}
	for in, want := range tests {
		assert.Equal(t, want, NormalizeIndianNumber(in), in)
	}
}
