package fs

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/mnemos-ai/mnemos/service/audit"
)

func baseURL(t *testing.T) string {
	return fmt.Sprintf("mem://localhost/mnemos/audit/%v-%d", t.Name(), time.Now().UnixNano())
}

func TestAppendAndAll(t *testing.T) {
	ctx := context.Background()
	ledger, err := New(baseURL(t))
	assert.NoError(t, err)

	entries := []*audit.Entry{
		{Action: audit.ActionStore, SubjectID: "m1", Detail: map[string]interface{}{"tone": "joy"}},
		{Action: audit.ActionModify, SubjectID: "m1"},
		{Action: audit.ActionConsentDecision, SubjectID: "m1", Detail: map[string]interface{}{"verdict": "approved"}},
	}
	for _, e := range entries {
		assert.NoError(t, ledger.Append(ctx, e))
	}

	all, err := ledger.All(ctx)
	assert.NoError(t, err)
	assert.Len(t, all, 3)
	for i, e := range all {
		assert.Equal(t, uint64(i+1), e.Seq)
	}
	assert.Equal(t, "joy", all[0].Detail["tone"])
}

func TestSequenceSurvivesReopen(t *testing.T) {
	ctx := context.Background()
	url := baseURL(t)

	ledger, err := New(url)
	assert.NoError(t, err)
	for i := 0; i < 3; i++ {
		assert.NoError(t, ledger.Append(ctx, &audit.Entry{Action: audit.ActionStore, SubjectID: "m"}))
	}

	reopened, err := New(url)
	assert.NoError(t, err)
	assert.Equal(t, 3, reopened.Len())

	entry := &audit.Entry{Action: audit.ActionDelete, SubjectID: "m"}
	assert.NoError(t, reopened.Append(ctx, entry))
	assert.Equal(t, uint64(4), entry.Seq)

	all, _ := reopened.All(ctx)
	for i, e := range all {
		assert.Equal(t, uint64(i+1), e.Seq)
	}
}

func TestRejectsMalformed(t *testing.T) {
	ledger, err := New(baseURL(t))
	assert.NoError(t, err)
	assert.ErrorIs(t, ledger.Append(context.Background(), &audit.Entry{SubjectID: "m"}), audit.ErrMalformedEntry)
	assert.Equal(t, 0, ledger.Len())
}

func TestFilterBySubject(t *testing.T) {
	ctx := context.Background()
	ledger, err := New(baseURL(t))
	assert.NoError(t, err)

	_ = ledger.Append(ctx, &audit.Entry{Action: audit.ActionStore, SubjectID: "a"})
	_ = ledger.Append(ctx, &audit.Entry{Action: audit.ActionStore, SubjectID: "b"})

	matched, err := ledger.Filter(ctx, audit.Query{SubjectID: "b"})
	assert.NoError(t, err)
	assert.Len(t, matched, 1)
	assert.Equal(t, "b", matched[0].SubjectID)
}
