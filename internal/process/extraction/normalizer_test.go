package extraction

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"

	"github.com/lueurxax/meeto/internal/core/domain"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name      string
		desc      string
		owner     string
		wantDesc  string
		wantOwner string
	}{
		{name: "group modal", desc: "We need to update the pricing page.", wantDesc: "Update the pricing page."},
		{name: "owner clause", desc: "John will send the proposal by 2024-03-01.", wantDesc: "Send the proposal by 2024-03-01.", wantOwner: "John"},
		{name: "known owner kept", desc: "John will send the deck", owner: "Maria", wantDesc: "Send the deck", wantOwner: "Maria"},
		{name: "polite prefix with comma", desc: "please, review the contract", wantDesc: "Review the contract"},
		{name: "stacked prefixes", desc: "Please we should   schedule a retro", wantDesc: "Schedule a retro"},
		{name: "could you", desc: "could you share the notes", wantDesc: "Share the notes"},
		{name: "lets", desc: "Let's book the venue", wantDesc: "Book the venue"},
		{name: "we will", desc: "we will ship on Friday", wantDesc: "Ship on Friday"},
		{name: "prefix needs word boundary", desc: "pleased customers get a survey", wantDesc: "Pleased customers get a survey"},
		{name: "owner to", desc: "Priya to draft the memo", wantDesc: "Draft the memo", wantOwner: "Priya"},
		{name: "lowercase name is not an owner", desc: "john will call", wantDesc: "John will call"},
		{name: "multiline collapsed", desc: "fix\n the   build\t now", wantDesc: "Fix the build now"},
		{name: "empty", desc: "   ", wantDesc: ""},
		{name: "non ascii first letter", desc: "élargir la portée", wantDesc: "Élargir la portée"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gotDesc, gotOwner := Normalize(tt.desc, tt.owner)

			assert.Equal(t, tt.wantDesc, gotDesc)
			assert.Equal(t, tt.wantOwner, gotOwner)
		})
	}
}

func TestNormalize_LengthCap(t *testing.T) {
	long := "Please " + strings.Repeat("refactor the billing module ", 10)

	got, _ := Normalize(long, "")

	assert.LessOrEqual(t, utf8.RuneCountInString(got), domain.MaxDescriptionLength)
	assert.True(t, strings.HasSuffix(got, "..."))
	assert.True(t, strings.HasPrefix(got, "Refactor"))
}

func TestNormalize_Idempotent(t *testing.T) {
	once, owner := Normalize("Please, John will update the roadmap", "")
	twice, owner2 := Normalize(once, owner)

	assert.Equal(t, once, twice)
	assert.Equal(t, owner, owner2)
}

func TestNormalizeRecord(t *testing.T) {
	rec := domain.TaskRecord{Description: "Anna should file the report", Priority: domain.PriorityHigh, Confidence: 0.9}

	NormalizeRecord(&rec)

	assert.Equal(t, "File the report", rec.Description)
	assert.Equal(t, "Anna", rec.Owner)
	assert.Equal(t, domain.PriorityHigh, rec.Priority)
}

func TestTruncateDescription(t *testing.T) {
	exact := strings.Repeat("a", 140)
	assert.Equal(t, exact, truncateDescription(exact))

	over := strings.Repeat("ж", 141)
	got := truncateDescription(over)
	assert.Equal(t, 140, utf8.RuneCountInString(got))
	assert.Equal(t, strings.Repeat("ж", 137)+"...", got)

	spaced := strings.Repeat("a", 136) + "  " + strings.Repeat("b", 10)
	assert.Equal(t, strings.Repeat("a", 136)+"...", truncateDescription(spaced))
}
