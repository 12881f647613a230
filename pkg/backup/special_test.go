//go:build unix

// pkg/backup/special_test.go
// TEST TYPE: Unit Test
// DEPENDENCIES: Real filesystem (named pipes, unix sockets)
// PURPOSE: Special files are never opened while copying

package backup_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/arthur-debert/dotlink/pkg/backup"
	"github.com/arthur-debert/dotlink/pkg/errors"
	"github.com/arthur-debert/dotlink/pkg/filesystem"
	"github.com/arthur-debert/dotlink/pkg/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// withTimeout fails the test instead of hanging when fn blocks
func withTimeout(t *testing.T, fn func()) {
	t.Helper()
	done := make(chan struct{})
	go func() {
		defer close(done)
		fn()
	}()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("copy blocked on a special file")
	}
}

func TestBackup_SkipsSpecialFilesInDirectory(t *testing.T) {
	root := testutil.ShortTempDir(t)
	dir := filepath.Join(root, "gnupg")
	require.NoError(t, os.MkdirAll(dir, 0700))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "pubring.kbx"), []byte("keys"), 0600))
	testutil.MakeFIFO(t, filepath.Join(dir, "fifo"))
	testutil.ListenUnix(t, filepath.Join(dir, "S.agent"))

	svc := &backup.Service{FS: filesystem.NewOS(), Clock: func() time.Time { return fixedTime }}

	var res backup.Result
	var err error
	withTimeout(t, func() { res, err = svc.Backup(dir) })

	require.NoError(t, err)
	require.True(t, res.Created)
	data, err := os.ReadFile(filepath.Join(res.Path, "pubring.kbx"))
	require.NoError(t, err)
	assert.Equal(t, "keys", string(data))
	assert.NoFileExists(t, filepath.Join(res.Path, "fifo"))
	assert.NoFileExists(t, filepath.Join(res.Path, "S.agent"))
}

func TestBackup_SpecialFileAtTopFails(t *testing.T) {
	root := testutil.ShortTempDir(t)
	fifo := filepath.Join(root, "pipe")
	testutil.MakeFIFO(t, fifo)

	svc := &backup.Service{FS: filesystem.NewOS(), Clock: func() time.Time { return fixedTime }}

	var err error
	withTimeout(t, func() { _, err = svc.Backup(fifo) })

	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrBackupFailed))
	assert.ErrorIs(t, err, errors.New(errors.ErrSpecialFile, ""))
	assert.Contains(t, err.Error(), "named pipe")
	assert.NoFileExists(t, backup.NameFor(fifo, fixedTime))
}
