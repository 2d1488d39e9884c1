package workflow

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cmdshelf/cmdshelf/internal/logger"
	"github.com/cmdshelf/cmdshelf/pkg/store"
)

type fakeFormatter struct {
	text   string
	err    error
	called int
}

func (f *fakeFormatter) Format(ctx context.Context, rawCommand string, st *store.Store) (string, error) {
	f.called++
	return f.text, f.err
}

// scriptedConfirmer answers prompts in order, defaulting to yes when the
// script runs out.
type scriptedConfirmer struct {
	answers []bool
	asked   []string
}

func (c *scriptedConfirmer) Confirm(prompt string) (bool, error) {
	c.asked = append(c.asked, prompt)
	if len(c.answers) == 0 {
		return true, nil
	}
	answer := c.answers[0]
	c.answers = c.answers[1:]
	return answer, nil
}

type nullReporter struct{}

func (nullReporter) Info(string)      {}
func (nullReporter) Success(string)   {}
func (nullReporter) Warn(string)      {}
func (nullReporter) Error(string)     {}
func (nullReporter) JSON(string, any) {}

type fakePusher struct {
	called int
	err    error
}

func (p *fakePusher) Push(ctx context.Context, localPath string) error {
	p.called++
	return p.err
}

const seedStore = `{
  "GIT": [
    {
      "command": "git status",
      "description": "Shows the working tree status.",
      "usage example": "git status"
    }
  ]
}`

const candidateJSON = `{
  "category": "GIT",
  "command": "git checkout -b <branch_name>",
  "description": "Creates a new branch and switches to it.",
  "usage example": "git checkout -b new_feature_branch"
}`

type fixture struct {
	wf        *Workflow
	storePath string
	pending   string
	formatter *fakeFormatter
	confirm   *scriptedConfirmer
	pusher    *fakePusher
}

func newFixture(t *testing.T, storeDoc, response string) *fixture {
	t.Helper()
	dir := t.TempDir()
	storePath := filepath.Join(dir, "shortcuts.json")
	pending := filepath.Join(dir, "new_command.txt")
	require.NoError(t, os.WriteFile(storePath, []byte(storeDoc), 0644))
	require.NoError(t, os.WriteFile(pending, nil, 0644))

	f := &fixture{
		storePath: storePath,
		pending:   pending,
		formatter: &fakeFormatter{text: response},
		confirm:   &scriptedConfirmer{},
		pusher:    &fakePusher{},
	}
	f.wf = New(Options{
		StorePath:   storePath,
		PendingPath: pending,
		Formatter:   f.formatter,
		Pusher:      f.pusher,
		Confirm:     f.confirm,
		UI:          nullReporter{},
		Log:         logger.GetLogger(),
	})
	return f
}

func (f *fixture) storeBytes(t *testing.T) []byte {
	t.Helper()
	data, err := os.ReadFile(f.storePath)
	require.NoError(t, err)
	return data
}

func TestRun_EmptyInputIsNoOp(t *testing.T) {
	f := newFixture(t, seedStore, candidateJSON)

	require.NoError(t, f.wf.Run(context.Background(), "   \n"))

	assert.Zero(t, f.formatter.called)
	assert.Equal(t, seedStore, string(f.storeBytes(t)))
}

func TestRun_CommitAppendsExactlyOneEntry(t *testing.T) {
	f := newFixture(t, seedStore, candidateJSON)

	before, err := store.LineCount(f.storePath)
	require.NoError(t, err)

	require.NoError(t, f.wf.Run(context.Background(), "git checkout -b new_feature_branch to start a feature"))

	st, err := store.Load(f.storePath)
	require.NoError(t, err)
	require.Len(t, st.Entries("GIT"), 2)
	assert.Equal(t, "git checkout -b <branch_name>", st.Entries("GIT")[1].Command)

	after, err := store.LineCount(f.storePath)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, after, before)

	assert.Equal(t, 1, f.pusher.called)
}

func TestRun_FencedResponseIsStripped(t *testing.T) {
	f := newFixture(t, seedStore, "```json\n"+candidateJSON+"\n```")

	require.NoError(t, f.wf.Run(context.Background(), "git checkout -b x"))

	st, err := store.Load(f.storePath)
	require.NoError(t, err)
	assert.Len(t, st.Entries("GIT"), 2)
}

func TestRun_FormatterFailureAborts(t *testing.T) {
	f := newFixture(t, seedStore, "")
	f.formatter.err = errors.New("network down")

	err := f.wf.Run(context.Background(), "ls -la")
	require.Error(t, err)
	assert.Equal(t, seedStore, string(f.storeBytes(t)))
	assert.Zero(t, f.pusher.called)
}

func TestRun_MalformedOutputAborts(t *testing.T) {
	f := newFixture(t, seedStore, "sorry, I cannot help with that")

	err := f.wf.Run(context.Background(), "ls -la")
	require.ErrorIs(t, err, ErrMalformedOutput)
	assert.Equal(t, seedStore, string(f.storeBytes(t)))
}

func TestRun_MissingCategoryAborts(t *testing.T) {
	f := newFixture(t, seedStore, `{"command": "ls -la", "description": "d", "usage example": "ls -la"}`)

	err := f.wf.Run(context.Background(), "ls -la")
	require.ErrorIs(t, err, ErrMissingCategory)
	assert.Equal(t, seedStore, string(f.storeBytes(t)))
}

func TestRun_NewCategoryRequiresConfirmation(t *testing.T) {
	response := `{"category": "SHELL", "command": "ls -la", "description": "Lists files.", "usage example": "ls -la"}`

	t.Run("approved", func(t *testing.T) {
		f := newFixture(t, seedStore, response)

		require.NoError(t, f.wf.Run(context.Background(), "ls -la to list files"))

		st, err := store.Load(f.storePath)
		require.NoError(t, err)
		assert.True(t, st.HasCategory("SHELL"))
		require.Len(t, f.confirm.asked, 2)
		assert.Contains(t, f.confirm.asked[0], "SHELL")
	})

	t.Run("declined", func(t *testing.T) {
		f := newFixture(t, seedStore, response)
		f.confirm.answers = []bool{false}

		err := f.wf.Run(context.Background(), "ls -la to list files")
		require.ErrorIs(t, err, ErrCategoryRejected)
		assert.Equal(t, seedStore, string(f.storeBytes(t)))
	})
}

func TestRun_CategoryIsNormalized(t *testing.T) {
	response := `{"category": "git", "command": "git push", "description": "d", "usage example": "git push"}`
	f := newFixture(t, seedStore, response)

	require.NoError(t, f.wf.Run(context.Background(), "git push"))

	st, err := store.Load(f.storePath)
	require.NoError(t, err)
	// Lower-case "git" lands in the existing GIT category, no prompt needed.
	assert.Equal(t, []string{"GIT"}, st.Categories())
	require.Len(t, f.confirm.asked, 1)
}

func TestRun_DuplicateCommandAborts(t *testing.T) {
	response := `{"category": "GIT", "command": "git status", "description": "d", "usage example": "git status"}`
	f := newFixture(t, seedStore, response)

	err := f.wf.Run(context.Background(), "git status")
	require.ErrorIs(t, err, ErrDuplicateCommand)
	assert.Equal(t, seedStore, string(f.storeBytes(t)))
	assert.Zero(t, f.pusher.called)
}

func TestRun_SameCommandTwiceStoresOnce(t *testing.T) {
	f := newFixture(t, seedStore, candidateJSON)

	require.NoError(t, f.wf.Run(context.Background(), "git checkout -b x"))
	err := f.wf.Run(context.Background(), "git checkout -b x")
	require.ErrorIs(t, err, ErrDuplicateCommand)

	st, err := store.Load(f.storePath)
	require.NoError(t, err)
	assert.Len(t, st.Entries("GIT"), 2)
}

func TestRun_CandidateRejectedAborts(t *testing.T) {
	f := newFixture(t, seedStore, candidateJSON)
	f.confirm.answers = []bool{false}

	err := f.wf.Run(context.Background(), "git checkout -b x")
	require.ErrorIs(t, err, ErrCandidateRejected)
	assert.Equal(t, seedStore, string(f.storeBytes(t)))
}

func TestRun_PushFailureDoesNotRevertCommit(t *testing.T) {
	f := newFixture(t, seedStore, candidateJSON)
	f.pusher.err = errors.New("remote unavailable")

	require.NoError(t, f.wf.Run(context.Background(), "git checkout -b x"))

	st, err := store.Load(f.storePath)
	require.NoError(t, err)
	assert.Len(t, st.Entries("GIT"), 2)
}

func TestConsumePending_AlwaysClearsInput(t *testing.T) {
	t.Run("on commit", func(t *testing.T) {
		f := newFixture(t, seedStore, candidateJSON)
		require.NoError(t, os.WriteFile(f.pending, []byte("git checkout -b x"), 0644))

		require.NoError(t, f.wf.ConsumePending(context.Background()))

		data, err := os.ReadFile(f.pending)
		require.NoError(t, err)
		assert.Empty(t, data)
	})

	t.Run("on abort", func(t *testing.T) {
		f := newFixture(t, seedStore, "not json")
		require.NoError(t, os.WriteFile(f.pending, []byte("ls -la"), 0644))

		err := f.wf.ConsumePending(context.Background())
		require.ErrorIs(t, err, ErrMalformedOutput)

		data, err := os.ReadFile(f.pending)
		require.NoError(t, err)
		assert.Empty(t, data)
	})
}

func TestStripFence(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"no fence", `{"a": 1}`, `{"a": 1}`},
		{"json fence", "```json\n{\"a\": 1}\n```", `{"a": 1}`},
		{"bare fence", "```\n{\"a\": 1}\n```", `{"a": 1}`},
		{"surrounding whitespace", "  ```json\n{\"a\": 1}\n```  ", `{"a": 1}`},
		{"unclosed fence falls through", "```json\n{\"a\": 1}", "```json\n{\"a\": 1}"},
		{"fence without newline falls through", "```{\"a\": 1}```", "```{\"a\": 1}```"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, stripFence(tt.in))
		})
	}
}

func TestParseCandidate_RequiresCommand(t *testing.T) {
	_, err := parseCandidate(`{"category": "GIT", "description": "d", "usage example": "u"}`)
	assert.ErrorIs(t, err, ErrMalformedOutput)
}
