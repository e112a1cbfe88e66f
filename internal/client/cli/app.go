package cli

import (
	"bufio"
	"context"
	"database/sql"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"

	"github.com/dmitrijs2005/gophstorage/internal/client/client"
	"github.com/dmitrijs2005/gophstorage/internal/client/config"
	"github.com/dmitrijs2005/gophstorage/internal/client/content"
	"github.com/dmitrijs2005/gophstorage/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/gophstorage/internal/client/services"
	"github.com/dmitrijs2005/gophstorage/internal/filex"
	"github.com/dmitrijs2005/gophstorage/internal/logging"
)

// App is the interactive client. It owns the session database handle.
type App struct {
	config    *config.Config
	session   services.SessionStore
	files     services.FileStore
	dashboard services.DashboardStore
	reader    *bufio.Reader
	out       io.Writer
	page      int
	db        *sql.DB
}

// NewApp wires the stores to the API at c.APIBaseURL and to the local
// session database.
func NewApp(ctx context.Context, c *config.Config, logger logging.Logger) (*App, error) {
	downloadDir, err := filex.EnsureDir(c.DownloadDir)
	if err != nil {
		return nil, fmt.Errorf("download dir: %w", err)
	}

	store, db, err := openMetadataStore(ctx, c.DBPath)
	if err != nil {
		log.Printf("error initializing database: %s", err.Error())
		return nil, err
	}

	api, err := client.NewHTTPClient(c.APIBaseURL, client.WithTimeout(c.RequestTimeout), client.WithLogger(logger))
	if err != nil {
		closeDB(db)
		return nil, err
	}

	session := services.NewSessionStore(api, store, logger)
	authed := api.Authorized(session)

	var sources []content.Source
	s3cfg := content.S3Config{Region: c.S3Region, Endpoint: c.S3Endpoint, AccessKey: c.S3AccessKey, SecretKey: c.S3SecretKey}
	if s3cfg.Enabled() {
		src, err := content.NewS3Source(ctx, s3cfg)
		if err != nil {
			logger.Warn(ctx, "direct object storage access disabled", "error", err)
		} else {
			sources = append(sources, src)
		}
	}
	sources = append(sources,
		content.NewPresignedSource(&http.Client{Timeout: c.RequestTimeout}),
		content.NewAPISource(authed),
	)

	fetcher := content.NewChain(logger, sources...)
	files := services.NewFileStore(session, authed, fetcher, content.NewSaver(downloadDir), c.PageSize, logger)
	dashboard := services.NewDashboardStore(session, authed, logger)

	return &App{
		config:    c,
		session:   session,
		files:     files,
		dashboard: dashboard,
		reader:    bufio.NewReader(os.Stdin),
		out:       os.Stdout,
		page:      1,
		db:        db,
	}, nil
}

// openMetadataStore opens the SQLite session database, or an in-memory
// store when path is empty.
func openMetadataStore(ctx context.Context, path string) (metadata.Store, *sql.DB, error) {
	if path == "" {
		return metadata.NewMemoryStore(), nil, nil
	}
	db, err := client.InitDatabase(ctx, path)
	if err != nil {
		return nil, nil, err
	}
	return metadata.NewSQLiteStore(db), db, nil
}

func closeDB(db *sql.DB) {
	if db != nil {
		_ = db.Close()
	}
}

// Run restores the previous session, loads the gallery and dashboard when
// signed in, and serves the REPL until the user exits or input ends.
func (a *App) Run(ctx context.Context) {
	defer closeDB(a.db)

	log.Println("Welcome to GophStorage CLI (type 'help' for commands)")

	if err := a.session.Init(ctx); err != nil {
		log.Printf("could not restore session: %s", err)
	}
	if a.isLoggedIn() {
		a.loadAll(ctx)
		a.printSummary()
	}

	runREPL(ctx, a, a.getStatus, a.reader)
}

func (a *App) isLoggedIn() bool {
	return a.session.IsAuthenticated()
}

func (a *App) getStatus() string {
	s := a.session.Session()
	if s == nil {
		return ""
	}
	return fmt.Sprintf("(%s)", displayName(s.UserName, s.UserEmail))
}

func (a *App) loadAll(ctx context.Context) {
	a.files.Fetch(ctx)
	a.dashboard.Fetch(ctx)
}

func (a *App) printf(format string, args ...any) {
	fmt.Fprintf(a.out, format, args...)
}
