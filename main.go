package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"MyLocalNotes/internal/config"
	"MyLocalNotes/internal/document"
	"MyLocalNotes/internal/export"
	"MyLocalNotes/internal/ink"
	"MyLocalNotes/internal/net"
	"MyLocalNotes/internal/raster"
	"MyLocalNotes/internal/state"
	"MyLocalNotes/internal/store"
	"MyLocalNotes/internal/ui"
)

func main() {
	configPath := flag.String("config", "", "settings file (TOML)")
	notebookID := flag.String("open", "", "id of a saved notebook to reopen")
	shareNow := flag.Bool("share", false, "share the notebook on the LAN right away")
	browse := flag.Bool("browse", false, "list notebooks shared on the LAN and exit")
	list := flag.Bool("list", false, "list saved notebooks and exit")
	exportTo := flag.String("export", "", "write the notebook as PDF to this path and exit")
	pages := flag.Int("pages", 1, "page count of a new blank notebook")
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "usage: %s [flags] [pdf | image | image directory | %s<host:port>]\n", os.Args[0], net.LinkScheme)
		flag.PrintDefaults()
	}
	flag.Parse()

	cfg, err := loadConfig(*configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	level, _ := cfg.Level()
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	arg := flag.Arg(0)
	switch {
	case *browse:
		err = runBrowse(os.Stdout)
	case *list:
		err = runList(os.Stdout, cfg)
	case *exportTo != "":
		err = runExport(cfg, arg, *notebookID, *pages, *exportTo)
	case strings.HasPrefix(arg, net.LinkScheme):
		err = runViewer(cfg, arg)
	default:
		err = runHost(cfg, arg, *notebookID, *pages, *shareNow)
	}
	if err != nil {
		slog.Error("localnotes", "err", err)
		os.Exit(1)
	}
}

func loadConfig(path string) (config.Config, error) {
	if path != "" {
		return config.Load(path, false)
	}
	dir, err := os.UserConfigDir()
	if err != nil {
		return config.Default(), nil
	}
	return config.Load(filepath.Join(dir, "localnotes", "localnotes.toml"), true)
}

func runBrowse(w io.Writer) error {
	hosts, err := net.Browse(3 * time.Second)
	for _, h := range hosts {
		fmt.Fprintf(w, "%s\t%s%s\n", h.Name, net.LinkScheme, h.Addr)
	}
	return err
}

func runList(w io.Writer, cfg config.Config) error {
	st, err := store.Open(cfg.StoreDir)
	if err != nil {
		return err
	}
	nbs, err := st.List()
	if err != nil {
		return err
	}
	for _, nb := range nbs {
		fmt.Fprintf(w, "%s\t%s\t%d pages\t%s\n", nb.ID, nb.Name, nb.Pages, nb.Updated.Local().Format(time.DateTime))
	}
	return nil
}

// runExport renders a notebook without opening a window.
func runExport(cfg config.Config, file, id string, blankPages int, out string) error {
	st, err := store.Open(cfg.StoreDir)
	if err != nil {
		return err
	}
	nb, r, err := openNotebook(st, cfg, file, id, blankPages)
	if err != nil {
		return err
	}
	ed, canvases, err := openEditor(cfg, nb, r)
	if err != nil {
		return err
	}
	pages := make([]export.Page, len(canvases))
	for i, c := range canvases {
		pages[i] = c
	}
	slog.Debug("exporting", "notebook", nb.ID, "pages", ed.Len())
	return export.PDFFile(out, pages)
}

// openEditor loads nb's pages through r and replays its saved history.
func openEditor(cfg config.Config, nb *store.Notebook, r document.Rasterizer) (*ink.Editor, []*raster.Canvas, error) {
	var canvases []*raster.Canvas
	tools := state.NewRegistry(state.DefaultTools(), cfg.EraseMode)
	ed, err := document.Open(r, nb.Source, raster.Factory{Scale: cfg.BackingScale}, tools, document.Options{
		OnPage: func(_ *ink.Pad, t document.Target) { canvases = append(canvases, t.(*raster.Canvas)) },
	})
	if err != nil {
		return nil, nil, err
	}
	if len(nb.History) > 0 {
		if err := document.Restore(ed, nb.History); err != nil {
			return nil, nil, fmt.Errorf("notebook %s: %w", nb.ID, err)
		}
	}
	nb.Pages = ed.Len()
	return ed, canvases, nil
}

// session is the host side of one open notebook.
type session struct {
	cfg   config.Config
	app   *ui.App
	ed    *ink.Editor
	st    *store.Dir
	nb    *store.Notebook
	pages []*raster.Canvas

	hub       *net.Hub
	stopShare context.CancelFunc
}

func runHost(cfg config.Config, file, id string, blankPages int, shareNow bool) error {
	st, err := store.Open(cfg.StoreDir)
	if err != nil {
		return err
	}
	nb, r, err := openNotebook(st, cfg, file, id, blankPages)
	if err != nil {
		return err
	}

	ed, canvases, err := openEditor(cfg, nb, r)
	if err != nil {
		return err
	}
	s := &session{cfg: cfg, st: st, nb: nb, ed: ed, pages: canvases}

	s.app = ui.NewApp("LocalNotes - " + nb.Name)
	uiPages := make([]ui.Page, len(s.pages))
	for i, c := range s.pages {
		uiPages[i] = c
	}
	s.app.ShowEditor(ed, uiPages, false, ui.Actions{Save: s.save, Export: s.export, Share: s.share})
	if shareNow {
		s.share()
	}
	s.app.Run()

	if s.stopShare != nil {
		s.stopShare()
	}
	return nil
}

// openNotebook resolves what to open: a saved notebook, a PDF, an image, a
// directory of page images or fresh blank pages.
func openNotebook(st *store.Dir, cfg config.Config, file, id string, pages int) (*store.Notebook, document.Rasterizer, error) {
	blank := document.Blank{Width: cfg.Blank.Width, Height: cfg.Blank.Height}
	switch {
	case id != "":
		nb, err := st.Load(id)
		if err != nil {
			return nil, nil, err
		}
		blank.Pages = nb.Pages
		return nb, rasterizerFor(nb.Kind, blank), nil
	case file != "":
		fi, err := os.Stat(file)
		if err != nil {
			return nil, nil, fmt.Errorf("open %s: %w", file, err)
		}
		var data []byte
		kind := store.KindBundle
		if fi.IsDir() {
			data, err = document.BundleDir(file)
		} else {
			data, err = os.ReadFile(file)
			kind = sniffKind(data)
		}
		if err != nil {
			return nil, nil, fmt.Errorf("open %s: %w", file, err)
		}
		nb := store.New(filepath.Base(file), kind, 0)
		nb.Source = data
		return nb, rasterizerFor(kind, blank), nil
	default:
		if pages < 1 {
			return nil, nil, fmt.Errorf("blank notebook needs at least one page, got %d", pages)
		}
		blank.Pages = pages
		return store.New("Untitled", store.KindBlank, pages), blank, nil
	}
}

func sniffKind(data []byte) store.Kind {
	switch {
	case document.IsPDF(data):
		return store.KindPDF
	case document.IsBundle(data):
		return store.KindBundle
	default:
		return store.KindImage
	}
}

func rasterizerFor(kind store.Kind, blank document.Blank) document.Rasterizer {
	switch kind {
	case store.KindPDF:
		return document.PDF{}
	case store.KindBundle:
		return document.Bundle{}
	case store.KindImage:
		return document.Images{}
	default:
		return blank
	}
}

func (s *session) save() {
	s.nb.History = s.ed.Records(true)
	if err := s.st.Save(s.nb); err != nil {
		s.app.ShowError(err)
		return
	}
	s.app.SetStatus(fmt.Sprintf("Saved %q (%s)", s.nb.Name, s.nb.ID))
}

func (s *session) export() {
	pages := make([]export.Page, len(s.pages))
	for i, c := range s.pages {
		pages[i] = c
	}
	name := strings.TrimSuffix(s.nb.Name, filepath.Ext(s.nb.Name)) + ".pdf"
	s.app.SaveAs(name, func(w io.Writer) error { return export.PDF(w, pages) })
}

// share starts the hub once; later calls only show the link again.
func (s *session) share() {
	port := s.cfg.Share.Port
	link := net.Link(net.OutgoingIP(), port)
	if s.hub != nil {
		s.app.ShowLink(link)
		return
	}

	sizes := make([]net.PageSize, s.ed.Len())
	for i, p := range s.ed.Pads() {
		sizes[i] = net.PageSize{Width: p.Width, Height: p.Height}
	}
	s.hub = net.NewHub(s.nb.Name, s.nb.Source, sizes, s.ed.Records(false))
	ctx, cancel := context.WithCancel(context.Background())
	s.stopShare = cancel

	go func() {
		if err := s.hub.ListenAndServe(ctx, port); err != nil {
			s.app.Post(func() { s.app.ShowError(err) })
		}
	}()
	if s.cfg.Share.Advertise {
		srv, err := net.Advertise(port, s.hub.Site(), s.nb.Name)
		if err != nil {
			slog.Warn("share not advertised", "err", err)
		} else {
			context.AfterFunc(ctx, func() { srv.Shutdown() })
		}
	}

	s.ed.OnChange = func(p *ink.Pad) {
		s.hub.Publish(p.Index, p.Page.Rev(), p.Page.Record(false))
	}
	s.app.ShowLink(link)
}

func runViewer(cfg config.Config, link string) error {
	addr, err := net.ParseLink(link)
	if err != nil {
		return err
	}
	a := ui.NewApp("LocalNotes - viewing " + addr)
	a.SetStatus("Connecting to " + addr)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go view(ctx, a, cfg, addr)
	a.Run()
	return nil
}

// view runs on its own goroutine; the editor it builds is only touched on
// the UI goroutine through Post.
func view(ctx context.Context, a *ui.App, cfg config.Config, addr string) {
	v, err := net.Dial(ctx, addr)
	if err != nil {
		a.Post(func() { a.ShowError(err) })
		return
	}
	defer v.Close()

	var ed *ink.Editor
	err = v.Run(ctx, func(m net.Message) {
		a.Post(func() {
			switch m.Type {
			case net.TypeHello:
				var pages []ui.Page
				mirror, err := net.Mirror(m, raster.Factory{Scale: cfg.BackingScale}, document.Options{
					OnPage: func(_ *ink.Pad, t document.Target) { pages = append(pages, t.(*raster.Canvas)) },
				})
				if err != nil {
					a.ShowError(err)
					return
				}
				ed = mirror
				a.ShowEditor(ed, pages, true, ui.Actions{})
				a.SetStatus(fmt.Sprintf("Viewing %q from %s", m.Name, addr))
			case net.TypePage:
				if ed == nil {
					return
				}
				if err := net.Apply(ed, m); err != nil {
					slog.Warn("page update dropped", "component", "viewer", "page", m.Page, "err", err)
				}
			}
		})
	})
	if err != nil && ctx.Err() == nil {
		a.Post(func() { a.ShowError(err) })
		return
	}
	a.Post(func() { a.SetStatus("Host ended the session") })
}
