// pkg/fileop/session_test.go
// TEST TYPE: Integration Test
// DEPENDENCIES: portable engine on afero MemMapFs
// PURPOSE: Test queuing, committing and scoping of sessions end to end

package fileop_test

import (
	"context"
	"testing"

	"github.com/arthur-debert/fileop/pkg/errors"
	"github.com/arthur-debert/fileop/pkg/fileop"
	"github.com/arthur-debert/fileop/pkg/flags"
	"github.com/arthur-debert/fileop/pkg/portable"
	"github.com/arthur-debert/fileop/pkg/testutil"
	"github.com/arthur-debert/fileop/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var p = testutil.Path

type fixture struct {
	mem     *testutil.MemFS
	trasher *testutil.FakeTrasher
}

func newFixture() *fixture {
	mem := testutil.NewMemFS()
	return &fixture{mem: mem, trasher: testutil.NewFakeTrasher(mem)}
}

func (f *fixture) options(fl flags.OperationFlags) fileop.Options {
	return fileop.Options{
		Flags:  fl,
		Engine: portable.Factory(portable.WithFS(f.mem.FS), portable.WithTrasher(f.trasher)),
		FS:     f.mem.Afero,
	}
}

func (f *fixture) open(t *testing.T, fl flags.OperationFlags) *fileop.Session {
	t.Helper()
	s, err := fileop.Open(f.options(fl))
	require.NoError(t, err)
	return s
}

func TestCommit_MoveExample(t *testing.T) {
	f := newFixture()
	f.mem.CreateFile(t, "/x/a.txt", "A")
	f.mem.CreateDir(t, "/x/dest")

	s := f.open(t, flags.Default)
	require.NoError(t, s.Move("/x/a.txt", "/x/dest", "b.txt"))

	result, err := s.Commit(context.Background())
	require.NoError(t, err)
	require.NoError(t, s.Close())

	assert.Equal(t, map[string]string{p("/x/a.txt"): p("/x/dest/b.txt")}, result.Items)
	assert.False(t, result.Aborted)
	assert.True(t, result.Succeeded())
	testutil.AssertFileContent(t, f.mem, "/x/dest/b.txt", "A")
}

func TestCommit_OneEntryPerRequest(t *testing.T) {
	f := newFixture()
	f.mem.CreateFile(t, "/w/move.txt", "m")
	f.mem.CreateFile(t, "/w/copy.txt", "c")
	f.mem.CreateFile(t, "/w/rename.txt", "r")
	f.mem.CreateFile(t, "/w/delete.txt", "d")
	f.mem.CreateDir(t, "/w/out")

	s := f.open(t, flags.Default)
	require.NoError(t, s.Move("/w/move.txt", "/w/out", ""))
	require.NoError(t, s.Copy("/w/copy.txt", "/w/out", "copied.txt"))
	require.NoError(t, s.Rename("/w/rename.txt", "renamed.txt", false))
	require.NoError(t, s.Delete("/w/delete.txt"))
	require.NoError(t, s.NewItem("/w/out", "fresh", types.ItemDirectory, ""))

	result, err := s.Commit(context.Background())
	require.NoError(t, err)
	require.NoError(t, s.Close())

	assert.False(t, result.Aborted)
	assert.Equal(t, map[string]string{
		p("/w/move.txt"):   p("/w/out/move.txt"),
		p("/w/copy.txt"):   p("/w/out/copied.txt"),
		p("/w/rename.txt"): p("/w/renamed.txt"),
		p("/w/delete.txt"): fileop.TagDeleted,
		p("/w/out/fresh"):  p("/w/out/fresh"),
	}, result.Items)
}

func TestCommit_PluralForms(t *testing.T) {
	f := newFixture()
	f.mem.CreateFile(t, "/in/a.txt", "a")
	f.mem.CreateFile(t, "/in/b.txt", "b")
	f.mem.CreateFile(t, "/in/c.txt", "c")
	f.mem.CreateDir(t, "/out")

	s := f.open(t, flags.Default)
	require.NoError(t, s.CopyAll([]string{"/in/a.txt", "/in/b.txt"}, "/out"))
	require.NoError(t, s.MoveAll([]string{"/in/c.txt"}, "/out"))
	require.NoError(t, s.DeleteAll([]string{"/in/a.txt"}))

	result, err := s.Commit(context.Background())
	require.NoError(t, err)
	require.NoError(t, s.Close())

	assert.Len(t, result.Items, 3)
	got, ok := result.Lookup("/in/b.txt")
	assert.True(t, ok)
	assert.Equal(t, p("/out/b.txt"), got)
	assert.Equal(t, fileop.TagDeleted, result.Items[p("/in/a.txt")])
	testutil.AssertFileContent(t, f.mem, "/out/a.txt", "a")
	testutil.AssertFileContent(t, f.mem, "/out/c.txt", "c")
}

func TestRenameAll(t *testing.T) {
	f := newFixture()
	f.mem.CreateFile(t, "/one/x.txt", "1")
	f.mem.CreateFile(t, "/two/y.txt", "2")

	s := f.open(t, flags.Default)
	require.NoError(t, s.RenameAll([]string{"/one/x.txt", "/two/y.txt"}, "same.txt"))
	assert.Error(t, s.RenameAll([]string{"/one/x.txt"}, "/elsewhere/same.txt"))

	result, err := s.Commit(context.Background())
	require.NoError(t, err)
	require.NoError(t, s.Close())

	assert.Equal(t, p("/one/same.txt"), result.Items[p("/one/x.txt")])
	assert.Equal(t, p("/two/same.txt"), result.Items[p("/two/y.txt")])
}

func TestRename_MoveFallback(t *testing.T) {
	setup := func(t *testing.T) *fixture {
		f := newFixture()
		f.mem.CreateFile(t, "/src/a.txt", "A")
		f.mem.CreateDir(t, "/dst")
		return f
	}

	t.Run("fallback equals explicit move", func(t *testing.T) {
		viaRename := setup(t)
		s := viaRename.open(t, flags.Default)
		require.NoError(t, s.Rename("/src/a.txt", "/dst/b.txt", true))
		pending := s.Pending()
		require.Len(t, pending, 1)
		assert.Equal(t, types.KindMove, pending[0].Kind)
		renameResult, err := s.Commit(context.Background())
		require.NoError(t, err)
		require.NoError(t, s.Close())

		viaMove := setup(t)
		s = viaMove.open(t, flags.Default)
		require.NoError(t, s.Move("/src/a.txt", "/dst", "b.txt"))
		moveResult, err := s.Commit(context.Background())
		require.NoError(t, err)
		require.NoError(t, s.Close())

		assert.Equal(t, moveResult.Items, renameResult.Items)
		assert.Equal(t, moveResult.Aborted, renameResult.Aborted)
		testutil.AssertFileContent(t, viaRename.mem, "/dst/b.txt", "A")
	})

	t.Run("without fallback fails at queue time", func(t *testing.T) {
		f := setup(t)
		s := f.open(t, flags.Default)

		err := s.Rename("/src/a.txt", "/dst/b.txt", false)
		assert.True(t, errors.IsErrorCode(err, errors.ErrInvalidInput))
		assert.Empty(t, s.Pending())
		require.NoError(t, s.Close())
	})

	t.Run("same directory reduces to a rename", func(t *testing.T) {
		f := setup(t)
		s := f.open(t, flags.Default)

		require.NoError(t, s.Rename("/src/a.txt", "/src/c.txt", true))
		pending := s.Pending()
		require.Len(t, pending, 1)
		assert.Equal(t, types.KindRename, pending[0].Kind)
		assert.Equal(t, "c.txt", pending[0].NewName)

		err := s.Close()
		assert.True(t, errors.IsErrorCode(err, errors.ErrUncommitted))
		assert.Empty(t, s.Pending())
	})
}

func TestCommit_Empty(t *testing.T) {
	mock := &testutil.MockEngine{}
	mock.On("Close").Return(nil)

	s, err := fileop.Open(fileop.Options{Engine: mock.Factory(nil)})
	require.NoError(t, err)

	result, err := s.Commit(context.Background())
	require.NoError(t, err)
	assert.Empty(t, result.Items)
	assert.False(t, result.Aborted)
	assert.Equal(t, errors.StatusOK, result.Status)
	require.NoError(t, s.Close())

	mock.AssertNotCalled(t, "Perform")
	mock.AssertExpectations(t)
}

func TestCommit_DeleteTags(t *testing.T) {
	for _, tc := range []struct {
		name  string
		flags flags.OperationFlags
		want  string
	}{
		{"recycle preset", flags.Undo, fileop.TagRecycled},
		{"recycle flag", flags.RecycleOnDelete, fileop.TagRecycled},
		{"recycle disabled", flags.Default, fileop.TagDeleted},
	} {
		t.Run(tc.name, func(t *testing.T) {
			f := newFixture()
			f.mem.CreateFile(t, "/bin/junk.txt", "j")

			s := f.open(t, tc.flags)
			require.NoError(t, s.Delete("/bin/junk.txt"))
			result, err := s.Commit(context.Background())
			require.NoError(t, err)
			require.NoError(t, s.Close())

			assert.Equal(t, tc.want, result.Items[p("/bin/junk.txt")])
			testutil.AssertNotExists(t, f.mem, "/bin/junk.txt")
		})
	}
}

func TestCommit_FailureKeepsPartialResults(t *testing.T) {
	f := newFixture()
	f.mem.CreateFile(t, "/d/present.txt", "p")

	s := f.open(t, flags.Default)
	require.NoError(t, s.DeleteAll([]string{"/d/missing.txt", "/d/present.txt"}))

	result, err := s.Commit(context.Background())
	require.Error(t, err)
	require.NoError(t, s.Close())

	assert.True(t, errors.IsErrorCode(err, errors.ErrNotFound))
	assert.ErrorIs(t, err, errors.New(errors.ErrNotFound, ""))
	require.NotNil(t, result)
	assert.True(t, result.Aborted)
	assert.Equal(t, errors.StatusFileNotFound, result.Status)
	assert.Equal(t, map[string]string{p("/d/present.txt"): fileop.TagDeleted}, result.Items)
}

func TestCommit_CollisionRename(t *testing.T) {
	f := newFixture()
	f.mem.CreateFile(t, "/src/b.txt", "new")
	f.mem.CreateFile(t, "/dst/b.txt", "old")

	s := f.open(t, flags.RenameOnCollision)
	require.NoError(t, s.Move("/src/b.txt", "/dst", ""))
	result, err := s.Commit(context.Background())
	require.NoError(t, err)
	require.NoError(t, s.Close())

	assert.Equal(t, p("/dst/b (2).txt"), result.Items[p("/src/b.txt")])
}

func TestCommit_CollisionHint(t *testing.T) {
	f := newFixture()
	f.mem.CreateFile(t, "/src/b.txt", "new")
	f.mem.CreateFile(t, "/dst/b.txt", "old")

	s := f.open(t, flags.Default)
	require.NoError(t, s.Copy("/src/b.txt", "/dst", "", fileop.WithCollision(types.CollisionOverwrite)))
	_, err := s.Commit(context.Background())
	require.NoError(t, err)
	require.NoError(t, s.Close())

	testutil.AssertFileContent(t, f.mem, "/dst/b.txt", "new")
}

func TestCommit_Cancelled(t *testing.T) {
	f := newFixture()
	f.mem.CreateFile(t, "/a.txt", "a")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	s := f.open(t, flags.Default)
	require.NoError(t, s.Delete("/a.txt"))
	result, err := s.Commit(ctx)
	require.NoError(t, err)
	require.NoError(t, s.Close())

	assert.True(t, result.Aborted)
	assert.True(t, result.Status.Cancelled())
	assert.Empty(t, result.Items)
	testutil.AssertExists(t, f.mem, "/a.txt")
}

func TestQueue_ArgumentErrors(t *testing.T) {
	f := newFixture()
	s := f.open(t, flags.Default)
	defer func() { _ = s.Close() }()

	tests := []struct {
		name string
		call func() error
	}{
		{"empty move source", func() error { return s.Move("", "/dst", "") }},
		{"empty destination", func() error { return s.Copy("/a", "", "") }},
		{"nul in path", func() error { return s.Delete("/a\x00b") }},
		{"new name with separator", func() error { return s.Move("/a", "/dst", "x/y") }},
		{"no sources", func() error { return s.DeleteAll(nil) }},
		{"blank rename", func() error { return s.Rename("/a", " ", true) }},
		{"dot name", func() error { return s.NewItem("/dst", "..", types.ItemFile, "") }},
		{"template for directory", func() error { return s.NewItem("/dst", "d", types.ItemDirectory, "/t") }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.call()
			assert.True(t, errors.IsErrorCode(err, errors.ErrInvalidInput), "got %v", err)
		})
	}
	assert.Empty(t, s.Pending())
}

func TestSession_Lifecycle(t *testing.T) {
	f := newFixture()
	f.mem.CreateFile(t, "/a.txt", "a")

	s := f.open(t, flags.Default)
	require.NoError(t, s.Delete("/a.txt"))
	_, err := s.Commit(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, s.Result())

	err = s.Delete("/a.txt")
	assert.True(t, errors.IsErrorCode(err, errors.ErrSessionClosed))
	_, err = s.Commit(context.Background())
	assert.True(t, errors.IsErrorCode(err, errors.ErrSessionClosed))

	require.NoError(t, s.Close())
	require.NoError(t, s.Close())
	err = s.Move("/a.txt", "/b", "")
	assert.True(t, errors.IsErrorCode(err, errors.ErrSessionClosed))
}

func TestSession_CloseDiscardsUncommitted(t *testing.T) {
	f := newFixture()
	f.mem.CreateFile(t, "/keep.txt", "k")

	s := f.open(t, flags.Default)
	require.NoError(t, s.Delete("/keep.txt"))

	err := s.Close()
	assert.True(t, errors.IsErrorCode(err, errors.ErrUncommitted))
	assert.Equal(t, 1, errors.GetErrorDetails(err)["requests"])
	testutil.AssertExists(t, f.mem, "/keep.txt")
}

func TestSession_Reentrancy(t *testing.T) {
	f := newFixture()
	f.mem.CreateFile(t, "/a.txt", "a")

	var s *fileop.Session
	var queueErr, commitErr, closeErr error
	observer := &reentrantObserver{onPost: func() {
		queueErr = s.Delete("/a.txt")
		_, commitErr = s.Commit(context.Background())
		closeErr = s.Close()
	}}

	opts := f.options(flags.Default)
	opts.Observer = observer
	s, err := fileop.Open(opts)
	require.NoError(t, err)

	require.NoError(t, s.Delete("/a.txt"))
	_, err = s.Commit(context.Background())
	require.NoError(t, err)
	require.NoError(t, s.Close())

	assert.True(t, errors.IsErrorCode(queueErr, errors.ErrReentrant))
	assert.True(t, errors.IsErrorCode(commitErr, errors.ErrReentrant))
	assert.True(t, errors.IsErrorCode(closeErr, errors.ErrReentrant))
	assert.Equal(t, 1, observer.started)
	assert.Equal(t, 1, observer.finished)
}

type reentrantObserver struct {
	onPost   func()
	started  int
	finished int
}

func (o *reentrantObserver) StartOperations()               { o.started++ }
func (o *reentrantObserver) PostItem(types.ItemEvent)       { o.onPost() }
func (o *reentrantObserver) FinishOperations(errors.Status) { o.finished++ }

func TestOpen_PassesConfigToEngine(t *testing.T) {
	mock := &testutil.MockEngine{}
	mock.On("Close").Return(nil)

	var seen types.EngineConfig
	s, err := fileop.Open(fileop.Options{
		Flags:  flags.FullSilent,
		Owner:  0x1234,
		Engine: mock.Factory(&seen),
	})
	require.NoError(t, err)
	require.NoError(t, s.Close())

	assert.Equal(t, flags.FullSilent, seen.Flags)
	assert.Equal(t, uintptr(0x1234), seen.Owner)
	mock.AssertExpectations(t)
}

func TestOpen_EngineFailure(t *testing.T) {
	_, err := fileop.Open(fileop.Options{
		Engine: func(types.EngineConfig) (types.Engine, error) {
			return nil, errors.New(errors.ErrNotSupported, "no engine").WithStatus(errors.StatusFail)
		},
	})
	assert.True(t, errors.IsErrorCode(err, errors.ErrOperation))
}
