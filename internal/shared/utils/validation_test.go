package utils

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/GriffinCanCode/PhoneSim/backend/internal/shared/types"
)

func TestValidateID(t *testing.T) {
	tests := []struct {
		name    string
		id      string
		wantErr bool
	}{
		{"simple", "messages", false},
		{"prefixed ulid", "msg_01HZX3Q4W7", false},
		{"empty", "", true},
		{"slash", "a/b", true},
		{"too long", strings.Repeat("a", MaxIDLength+1), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateID(tt.id, "app_id", true)
			if tt.wantErr {
				assert.True(t, types.IsValidation(err), "expected validation error, got %v", err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidateMessageText(t *testing.T) {
	assert.NoError(t, ValidateMessageText("hi", false))
	assert.NoError(t, ValidateMessageText("", true))
	assert.Error(t, ValidateMessageText("", false))
	assert.Error(t, ValidateMessageText("   ", false))
	assert.Error(t, ValidateMessageText("bad\x00byte", false))
}

func TestValidateStructCalendarWindow(t *testing.T) {
	start := time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC)

	ok := types.CalendarEvent{Title: "Standup", Start: start, End: start.Add(time.Hour)}
	assert.NoError(t, ValidateStruct(ok))

	backwards := types.CalendarEvent{Title: "Standup", Start: start, End: start.Add(-time.Hour)}
	err := ValidateStruct(backwards)
	var ve *types.ValidationError
	if assert.ErrorAs(t, err, &ve) {
		assert.Equal(t, "end", ve.Field)
	}

	untitled := types.CalendarEvent{Start: start, End: start}
	err = ValidateStruct(untitled)
	if assert.ErrorAs(t, err, &ve) {
		assert.Equal(t, "title", ve.Field)
	}
}

func TestValidateStructCartRequest(t *testing.T) {
	err := ValidateStruct(types.AddToCartRequest{ProductID: "p1", Store: "Shopr", Price: 5})
	assert.NoError(t, err)

	err = ValidateStruct(types.AddToCartRequest{ProductID: "p1"})
	assert.True(t, types.IsValidation(err))
}
