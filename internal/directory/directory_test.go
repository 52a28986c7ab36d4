package directory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/DavidK2709/dcbot/internal/platform"
	"go.uber.org/zap"
)

func newTestDirectory(members []platform.Member) *Directory {
	client := platform.NewInMemoryClient()
	client.SeedMembers(members)
	return New(client, nil, time.Minute, zap.NewNop())
}

func TestResolveServiceNumber(t *testing.T) {
	dir := newTestDirectory([]platform.Member{
		{UserID: "100", DisplayName: "[07] Dr. John"},
		{UserID: "101", DisplayName: "[12] Dr. Jane"},
	})

	tests := []struct {
		input    string
		mention  string
		nickname string
	}{
		{"7", "<@100>", "[07] Dr. John"},
		{"07", "<@100>", "[07] Dr. John"},
		{"12", "<@101>", "[12] Dr. Jane"},
		{"99", "99", "99"},
	}
	for _, tt := range tests {
		got := dir.Resolve(context.Background(), tt.input)
		assert.Equal(t, tt.mention, got.Mention, tt.input)
		assert.Equal(t, tt.nickname, got.Nickname, tt.input)
	}
}

func TestResolveDisplayName(t *testing.T) {
	dir := newTestDirectory([]platform.Member{
		{UserID: "100", DisplayName: "[07] Dr. John"},
		{UserID: "102", DisplayName: "Schwester Anna"},
	})

	got := dir.Resolve(context.Background(), "dr. john")
	assert.Equal(t, "<@100>", got.Mention, "bracket prefix is stripped before matching")

	got = dir.Resolve(context.Background(), "Schwester Anna")
	assert.Equal(t, "<@102>", got.Mention)

	got = dir.Resolve(context.Background(), "Niemand")
	assert.Equal(t, "Niemand", got.Mention)
	assert.Equal(t, "Niemand", got.Nickname)
}

func TestResolveAllSplitsAndSkipsBlanks(t *testing.T) {
	dir := newTestDirectory([]platform.Member{
		{UserID: "100", DisplayName: "[07] Dr. John"},
	})

	resolved := dir.ResolveAll(context.Background(), " 7 ; ; Extern ")
	assert.Len(t, resolved, 2)
	assert.Equal(t, "<@100>", resolved[0].Mention)
	assert.Equal(t, "Extern", resolved[1].Mention)
}
