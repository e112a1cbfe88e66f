package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/dmitrijs2005/gophstorage/internal/client/client"
	"github.com/dmitrijs2005/gophstorage/internal/client/models"
	"github.com/dmitrijs2005/gophstorage/internal/filex"
	"github.com/dmitrijs2005/gophstorage/internal/humanx"
)

const (
	maxUploadSize  = 50 << 20
	pagerWindow    = 5
	maxDescription = 40
)

var (
	errUsageUpload   = errors.New("usage: upload <path> [description]")
	errUsageDelete   = errors.New("usage: delete <id>")
	errUsageDownload = errors.New("usage: download <id> [filename]")
	errUploadTooBig  = errors.New("file exceeds the 50 MB limit")
)

// Files prints one page of the cached gallery. Without an argument the last
// viewed page is shown again.
func (a *App) Files(ctx context.Context, args []string) error {
	if !a.isLoggedIn() {
		return client.ErrNotAuthenticated
	}

	page := a.page
	if len(args) > 0 {
		n, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("invalid page %q", args[0])
		}
		page = n
	}

	st := a.files.State()
	if st.Err != nil {
		a.printf("Error: %s\n", st.Err)
	}
	if len(st.Files) == 0 {
		if st.Err == nil {
			a.printf("No files yet. Use 'upload <path>' to add one.\n")
		}
		a.page = 1
		return nil
	}

	items, p := a.files.Page(page)
	a.page = p.Number

	tw := tabwriter.NewWriter(a.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "#\tID\tNAME\tSIZE\tTYPE\tUPLOADED\tDESCRIPTION")
	for i, f := range items {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%s\t%s\n",
			p.Start+i+1, f.ObjectID, f.FileName, humanx.Size(f.FileSize), f.ContentType,
			humanx.Date(f.UploadedAt), truncate(f.DescriptionText(), maxDescription))
	}
	_ = tw.Flush()

	a.printf("Page %d of %d (%d files)%s\n", p.Number, p.TotalPages, p.TotalItems, pager(p.Window(pagerWindow), p.Number))
	return nil
}

// Refresh re-fetches the gallery and the dashboard.
func (a *App) Refresh(ctx context.Context) error {
	if !a.isLoggedIn() {
		return client.ErrNotAuthenticated
	}
	a.loadAll(ctx)
	if err := a.files.State().Err; err != nil {
		return err
	}
	a.printSummary()
	return nil
}

// Upload sends a local file. Words after the path form the description;
// without them the user is asked for one (an empty answer skips it).
func (a *App) Upload(ctx context.Context, args []string) error {
	if !a.isLoggedIn() {
		return client.ErrNotAuthenticated
	}
	if len(args) == 0 {
		return errUsageUpload
	}

	path := args[0]
	info, err := os.Stat(path)
	if err != nil {
		return err
	}
	if info.IsDir() {
		return fmt.Errorf("%s is a directory", path)
	}
	if info.Size() > maxUploadSize {
		return errUploadTooBig
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	description := strings.Join(args[1:], " ")
	if description == "" {
		description, err = getMultiline(a.reader, "Enter description (optional)", a.out)
		if err != nil {
			return err
		}
	}

	name := filepath.Base(path)
	res, err := a.files.Upload(ctx, models.LocalFile{
		Name:        name,
		ContentType: filex.DetectContentType(name, data),
		Data:        data,
	}, description)
	if err != nil {
		return err
	}

	a.printf("Uploaded %s (%s) as %s\n", res.FileName, humanx.Size(int64(len(data))), res.ObjectID)
	a.dashboard.Fetch(ctx)
	return nil
}

// Delete asks for confirmation and removes a file on the server.
func (a *App) Delete(ctx context.Context, args []string) error {
	if !a.isLoggedIn() {
		return client.ErrNotAuthenticated
	}
	if len(args) != 1 {
		return errUsageDelete
	}
	id := args[0]

	label := id
	for _, f := range a.files.State().Files {
		if f.ObjectID == id {
			label = fmt.Sprintf("%s (%s)", f.FileName, id)
			break
		}
	}

	ok, err := getConfirm(a.reader, fmt.Sprintf("Delete %s?", label), a.out)
	if err != nil {
		return err
	}
	if !ok {
		a.printf("Cancelled\n")
		return nil
	}

	if err := a.files.Delete(ctx, id); err != nil {
		return err
	}

	a.printf("Deleted %s\n", label)
	a.dashboard.Fetch(ctx)
	return nil
}

// Download saves a listed file into the download directory.
func (a *App) Download(ctx context.Context, args []string) error {
	if !a.isLoggedIn() {
		return client.ErrNotAuthenticated
	}
	if len(args) < 1 || len(args) > 2 {
		return errUsageDownload
	}

	var filename string
	if len(args) == 2 {
		filename = args[1]
	}

	location, err := a.files.Download(ctx, args[0], filename)
	if err != nil {
		return err
	}

	a.printf("Saved to %s\n", location)
	return nil
}

// pager renders the page numbers with the current one in brackets.
func pager(pages []int, current int) string {
	if len(pages) < 2 {
		return ""
	}
	parts := make([]string, len(pages))
	for i, n := range pages {
		if n == current {
			parts[i] = fmt.Sprintf("[%d]", n)
		} else {
			parts[i] = strconv.Itoa(n)
		}
	}
	return "  pages: " + strings.Join(parts, " ")
}

func truncate(s string, n int) string {
	s = strings.ReplaceAll(s, "\n", " ")
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
