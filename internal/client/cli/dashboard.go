package cli

import (
	"context"
	"fmt"
	"text/tabwriter"

	"github.com/dmitrijs2005/gophstorage/internal/client/client"
	"github.com/dmitrijs2005/gophstorage/internal/humanx"
)

// Dashboard fetches and prints the storage usage overview.
func (a *App) Dashboard(ctx context.Context) error {
	if !a.isLoggedIn() {
		return client.ErrNotAuthenticated
	}

	a.dashboard.Fetch(ctx)
	st := a.dashboard.State()
	if st.Err != nil {
		return st.Err
	}
	if st.Data == nil {
		return nil
	}

	s := st.Data.Summary
	a.printf("Total files: %d\nTotal size:  %s (%.2f MB, %.4f GB)\n",
		s.TotalFiles, humanx.Size(s.TotalSizeInBytes), s.TotalSizeInMB, s.TotalSizeInGB)

	if len(st.Data.Months) == 0 {
		return nil
	}

	a.printf("\n")
	tw := tabwriter.NewWriter(a.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "MONTH\tFILES\tSIZE")
	for _, m := range st.Data.Months {
		fmt.Fprintf(tw, "%s %s\t%d\t%s\n", m.MonthName, yearOf(m.Month), m.FileCount, humanx.Size(m.TotalSize))
	}
	return tw.Flush()
}

// printSummary prints a one-line overview after login, refresh and startup.
func (a *App) printSummary() {
	fs := a.files.State()
	if fs.Err != nil {
		a.printf("Could not load files: %s\n", fs.Err)
		return
	}

	line := fmt.Sprintf("%d files", len(fs.Files))
	if d := a.dashboard.State().Data; d != nil {
		line += ", " + humanx.Size(d.Summary.TotalSizeInBytes) + " used"
	}
	a.printf("%s\n", line)
}

// yearOf extracts YYYY from a "YYYY-MM" month key.
func yearOf(month string) string {
	if len(month) >= 4 {
		return month[:4]
	}
	return month
}
