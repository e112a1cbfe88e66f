package cli

import (
	"bufio"
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/dmitrijs2005/gophstorage/internal/client/client"
	"github.com/dmitrijs2005/gophstorage/internal/client/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func stubConfirm(t *testing.T, answer bool) *string {
	t.Helper()
	var asked string
	orig := getConfirm
	getConfirm = func(_ *bufio.Reader, prompt string, _ io.Writer) (bool, error) {
		asked = prompt
		return answer, nil
	}
	t.Cleanup(func() { getConfirm = orig })
	return &asked
}

func stubDescription(t *testing.T, text string) *int {
	t.Helper()
	calls := 0
	orig := getMultiline
	getMultiline = func(_ *bufio.Reader, _ string, _ io.Writer) (string, error) {
		calls++
		return text, nil
	}
	t.Cleanup(func() { getMultiline = orig })
	return &calls
}

func writeTemp(t *testing.T, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, data, 0o600))
	return path
}

func TestCommands_RequireLogin(t *testing.T) {
	ta := newTestApp(t)
	ctx := context.Background()

	assert.ErrorIs(t, ta.Files(ctx, nil), client.ErrNotAuthenticated)
	assert.ErrorIs(t, ta.Refresh(ctx), client.ErrNotAuthenticated)
	assert.ErrorIs(t, ta.Upload(ctx, []string{"x.png"}), client.ErrNotAuthenticated)
	assert.ErrorIs(t, ta.Delete(ctx, []string{"1"}), client.ErrNotAuthenticated)
	assert.ErrorIs(t, ta.Download(ctx, []string{"1"}), client.ErrNotAuthenticated)
	assert.ErrorIs(t, ta.Dashboard(ctx), client.ErrNotAuthenticated)
	assert.Zero(t, ta.srv.Hits("GET /storage/files"))
}

func TestFiles_EmptyGallery(t *testing.T) {
	ta := newTestApp(t)
	ta.login(t)

	require.NoError(t, ta.Files(context.Background(), nil))
	assert.Contains(t, ta.output.String(), "No files yet")
}

func TestFiles_Paging(t *testing.T) {
	ta := newTestApp(t)
	now := time.Now()
	for _, name := range []string{"a.png", "b.png", "c.png"} {
		ta.srv.Put(ta.userID, name, "image/png", []byte(name), now)
	}
	ta.login(t)
	ctx := context.Background()

	require.NoError(t, ta.Files(ctx, nil))
	out := ta.output.String()
	assert.Contains(t, out, "NAME")
	assert.Contains(t, out, "Page 1 of 2 (3 files)  pages: [1] 2")
	assert.Equal(t, 1, ta.page)

	ta.output.Reset()
	require.NoError(t, ta.Files(ctx, []string{"9"}))
	assert.Contains(t, ta.output.String(), "Page 2 of 2 (3 files)  pages: 1 [2]")
	assert.Equal(t, 2, ta.page, "out-of-range page is clamped")

	ta.output.Reset()
	require.NoError(t, ta.Files(ctx, nil))
	assert.Contains(t, ta.output.String(), "Page 2 of 2", "last viewed page is kept")

	assert.Error(t, ta.Files(ctx, []string{"two"}))
	assert.Equal(t, 1, ta.srv.Hits("GET /storage/files"), "listing pages uses the cache")
}

func TestFiles_ShowsFetchError(t *testing.T) {
	ta := newTestApp(t)
	ta.login(t)
	ta.srv.Fail("GET /storage/files", 500, "storage offline")

	err := ta.Refresh(context.Background())
	require.EqualError(t, err, "storage offline")

	require.NoError(t, ta.Files(context.Background(), nil))
	assert.Contains(t, ta.output.String(), "Error: storage offline")
}

func TestRefresh_ReloadsBoth(t *testing.T) {
	ta := newTestApp(t)
	ta.login(t)
	ta.srv.Put(ta.userID, "late.png", "image/png", []byte("late"), time.Now())

	require.NoError(t, ta.Refresh(context.Background()))

	assert.Contains(t, ta.output.String(), "1 files, 4 B used")
	assert.Equal(t, 2, ta.srv.Hits("GET /storage/files"))
	assert.Equal(t, 2, ta.srv.Hits("GET /storage/dashboard"))
}

func TestUpload_WithInlineDescription(t *testing.T) {
	ta := newTestApp(t)
	ta.login(t)
	prompts := stubDescription(t, "unused")
	path := writeTemp(t, "cat.png", []byte("meow"))

	require.NoError(t, ta.Upload(context.Background(), []string{path, "a", "fluffy", "cat"}))

	assert.Zero(t, *prompts)
	assert.Contains(t, ta.output.String(), "Uploaded cat.png (4 B) as ")

	stored := ta.srv.Files(ta.userID)
	require.Len(t, stored, 1)
	assert.Equal(t, "image/png", stored[0].ContentType)
	assert.Equal(t, "a fluffy cat", stored[0].DescriptionText())

	st := ta.files.State()
	require.Len(t, st.Files, 1)
	assert.Equal(t, 2, ta.srv.Hits("GET /storage/dashboard"), "dashboard follows the upload")
}

func TestUpload_PromptsForDescription(t *testing.T) {
	ta := newTestApp(t)
	ta.login(t)
	prompts := stubDescription(t, "line one\nline two")
	path := writeTemp(t, "doc.pdf", []byte("%PDF-1.4"))

	require.NoError(t, ta.Upload(context.Background(), []string{path}))

	assert.Equal(t, 1, *prompts)
	stored := ta.srv.Files(ta.userID)
	require.Len(t, stored, 1)
	assert.Equal(t, "line one\nline two", stored[0].DescriptionText())
}

func TestUpload_LocalErrors(t *testing.T) {
	ta := newTestApp(t)
	ta.login(t)
	stubDescription(t, "")
	ctx := context.Background()

	assert.ErrorIs(t, ta.Upload(ctx, nil), errUsageUpload)
	assert.Error(t, ta.Upload(ctx, []string{filepath.Join(t.TempDir(), "missing.png")}))
	assert.ErrorContains(t, ta.Upload(ctx, []string{t.TempDir()}), "is a directory")
	assert.ErrorIs(t, ta.Upload(ctx, []string{writeTemp(t, "empty.png", nil)}), services.ErrEmptyFile)

	assert.Zero(t, ta.srv.Hits("POST /storage/upload"))
}

func TestUpload_RejectedByServer(t *testing.T) {
	ta := newTestApp(t)
	ta.login(t)
	stubDescription(t, "")
	path := writeTemp(t, "notes.txt", []byte("plain text"))

	err := ta.Upload(context.Background(), []string{path})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "file type not allowed")
	assert.Equal(t, err, ta.files.State().Err)
}

func TestDelete_Confirmed(t *testing.T) {
	ta := newTestApp(t)
	f := ta.srv.Put(ta.userID, "cat.png", "image/png", []byte("meow"), time.Now())
	ta.login(t)
	asked := stubConfirm(t, true)

	require.NoError(t, ta.Delete(context.Background(), []string{f.ObjectID}))

	assert.Equal(t, "Delete cat.png ("+f.ObjectID+")?", *asked)
	assert.Contains(t, ta.output.String(), "Deleted cat.png")
	assert.Empty(t, ta.srv.Files(ta.userID))
	assert.Empty(t, ta.files.State().Files)
}

func TestDelete_Cancelled(t *testing.T) {
	ta := newTestApp(t)
	f := ta.srv.Put(ta.userID, "cat.png", "image/png", []byte("meow"), time.Now())
	ta.login(t)
	stubConfirm(t, false)

	require.NoError(t, ta.Delete(context.Background(), []string{f.ObjectID}))

	assert.Contains(t, ta.output.String(), "Cancelled")
	assert.Len(t, ta.srv.Files(ta.userID), 1)
	assert.Zero(t, ta.srv.Hits("DELETE /storage/files"))
}

func TestDelete_UnknownAndUsage(t *testing.T) {
	ta := newTestApp(t)
	ta.login(t)
	asked := stubConfirm(t, true)
	ctx := context.Background()

	assert.ErrorIs(t, ta.Delete(ctx, nil), errUsageDelete)

	err := ta.Delete(ctx, []string{"nope"})
	require.Error(t, err)
	assert.Equal(t, "Delete nope?", *asked)
	assert.Equal(t, "file not found", err.Error())
}

func TestDownload_SavesIntoDownloadDir(t *testing.T) {
	ta := newTestApp(t)
	f := ta.srv.Put(ta.userID, "cat.png", "image/png", []byte("meow"), time.Now())
	ta.login(t)
	ctx := context.Background()

	require.NoError(t, ta.Download(ctx, []string{f.ObjectID}))
	require.NoError(t, ta.Download(ctx, []string{f.ObjectID, "../copy.png"}))

	got, err := os.ReadFile(filepath.Join(ta.cfg.DownloadDir, "cat.png"))
	require.NoError(t, err)
	assert.Equal(t, []byte("meow"), got)
	assert.FileExists(t, filepath.Join(ta.cfg.DownloadDir, "copy.png"))
	assert.Contains(t, ta.output.String(), "Saved to ")
}

func TestDownload_Errors(t *testing.T) {
	ta := newTestApp(t)
	ta.login(t)
	ctx := context.Background()

	assert.ErrorIs(t, ta.Download(ctx, nil), errUsageDownload)
	assert.ErrorIs(t, ta.Download(ctx, []string{"a", "b", "c"}), errUsageDownload)
	assert.ErrorIs(t, ta.Download(ctx, []string{"missing"}), services.ErrFileNotFound)
}

func TestDashboard_PrintsTotalsAndMonths(t *testing.T) {
	ta := newTestApp(t)
	ta.srv.Put(ta.userID, "a.png", "image/png", make([]byte, 2048), time.Date(2024, time.March, 3, 10, 0, 0, 0, time.UTC))
	ta.srv.Put(ta.userID, "b.png", "image/png", make([]byte, 1024), time.Date(2024, time.April, 9, 10, 0, 0, 0, time.UTC))
	ta.login(t)

	require.NoError(t, ta.Dashboard(context.Background()))

	out := ta.output.String()
	assert.Contains(t, out, "Total files: 2")
	assert.Contains(t, out, "Total size:  3.00 KB")
	assert.Contains(t, out, "March 2024")
	assert.Contains(t, out, "April 2024")
	assert.Less(t, strings.Index(out, "March"), strings.Index(out, "April"))
}

func TestDashboard_Error(t *testing.T) {
	ta := newTestApp(t)
	ta.login(t)
	ta.srv.Fail("GET /storage/dashboard", 500, "aggregation failed")

	err := ta.Dashboard(context.Background())
	require.EqualError(t, err, "aggregation failed")
	assert.Nil(t, ta.dashboard.State().Data)
}

func TestPager(t *testing.T) {
	assert.Equal(t, "", pager([]int{1}, 1))
	assert.Equal(t, "  pages: 1 [2] 3", pager([]int{1, 2, 3}, 2))
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 10))
	assert.Equal(t, "one two", truncate("one\ntwo", 10))
	assert.Equal(t, "abcd…", truncate("abcdefgh", 5))
}

func TestYearOf(t *testing.T) {
	assert.Equal(t, "2024", yearOf("2024-03"))
	assert.Equal(t, "24", yearOf("24"))
}

