package memory

import (
	"testing"
	"time"

	"github.com/gofiber/fiber/v2/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/viv500/GenesisAI/pkg/store"
)

func TestSessionRepository(t *testing.T) {
	repo := NewSessionRepository(time.Hour)

	repo.Save(&store.Session{ID: "s1", CheckpointID: "cp-1"})
	repo.Save(&store.Session{ID: "s2", CheckpointID: "cp-2"})

	got, ok := repo.Get("s1")
	require.True(t, ok)
	assert.Equal(t, "cp-1", got.CheckpointID)
	assert.Equal(t, 2, repo.Count())
	assert.Len(t, repo.All(), 2)

	repo.Delete("s1")
	_, ok = repo.Get("s1")
	assert.False(t, ok)
}

func TestSessionRepositoryGetWithBorrowedKey(t *testing.T) {
	repo := NewSessionRepository(time.Hour)
	repo.Save(&store.Session{ID: "s1", CheckpointID: "cp-1"})

	// fiber hands out params backed by the request buffer, reused afterwards
	buf := []byte("s1")
	_, ok := repo.Get(utils.UnsafeString(buf))
	require.True(t, ok)
	copy(buf, "zz")

	got, ok := repo.Get("s1")
	require.True(t, ok)
	assert.Equal(t, "cp-1", got.CheckpointID)
	_, ok = repo.Get("zz")
	assert.False(t, ok)
	assert.Equal(t, 1, repo.Count())
}

func TestSessionRepositoryExpiry(t *testing.T) {
	repo := NewSessionRepository(20 * time.Millisecond)
	repo.Save(&store.Session{ID: "s1"})

	time.Sleep(50 * time.Millisecond)

	_, ok := repo.Get("s1")
	assert.False(t, ok)
}

func TestProposalRepositoryTake(t *testing.T) {
	repo := NewProposalRepository(time.Minute)
	repo.Save(&store.Proposal{ID: "p1", Message: "hi"})

	p, ok := repo.Take("p1")
	require.True(t, ok)
	assert.Equal(t, "hi", p.Message)

	_, ok = repo.Take("p1")
	assert.False(t, ok)
}
