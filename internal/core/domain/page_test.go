package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPageStatus_Valid(t *testing.T) {
	tests := []struct {
		name   string
		status PageStatus
		want   bool
	}{
		{"pending", PageStatusPending, true},
		{"success", PageStatusSuccess, true},
		{"failed", PageStatusFailed, true},
		{"empty", PageStatus(""), false},
		{"unknown", PageStatus("scraping"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.status.Valid())
		})
	}
}

func TestPage_HasText(t *testing.T) {
	assert.False(t, (&Page{}).HasText())
	assert.False(t, (&Page{Headings: []string{""}}).HasText())
	assert.True(t, (&Page{Title: "Acme Corp"}).HasText())
	assert.True(t, (&Page{Headings: []string{"Leadership Team"}}).HasText())
	assert.True(t, (&Page{Body: "Jane Doe is the CEO."}).HasText())
	assert.True(t, (&Page{Metadata: map[string]string{"description": "x"}}).HasText())
}
