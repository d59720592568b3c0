// Package console is the line-oriented terminal front-end of the catalog. It
// renders the list and detail views and implements their collaborators.
package console

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"
	"text/tabwriter"

	"productos/internal/apperror"
	"productos/internal/client"
	"productos/internal/models"
	"productos/internal/views"
)

const helpText = `Comandos de la lista:
  listar               muestra todos los productos
  buscar [texto]       filtra por nombre (sin texto muestra todos)
  pagina N             muestra la página N
  ordenar COL [desc]   ordena por id, nombre, descripcion, precio o stock
  nuevo                crea un producto
  editar ID            edita un producto
  eliminar ID          elimina un producto
  ver ID               abre el detalle de un producto
Comandos del detalle:
  editar | eliminar | volver
Generales:
  ayuda | salir`

// Options tunes the console.
type Options struct {
	PageSize int
}

// Console drives the catalog views from a line-based input.
type Console struct {
	in     *bufio.Scanner
	out    io.Writer
	client client.ProductoClient
	logger *slog.Logger

	list   *views.ListView
	detail *views.DetailView

	route      string
	page       int
	pageSize   int
	sortColumn string
	sortDesc   bool
}

// New creates a Console reading commands from in and writing to out.
func New(c client.ProductoClient, in io.Reader, out io.Writer, opts Options, logger *slog.Logger) *Console {
	if logger == nil {
		logger = slog.Default()
	}
	if opts.PageSize <= 0 {
		opts.PageSize = views.DefaultPageSize
	}
	con := &Console{
		in:       bufio.NewScanner(in),
		out:      out,
		client:   c,
		logger:   logger,
		route:    views.RouteList,
		pageSize: opts.PageSize,
	}
	con.list = views.NewListView(c, con, con, logger)
	con.detail = views.NewDetailView(c, con, con, con, logger)
	return con
}

// Run loads the list and processes commands until "salir", end of input or
// ctx is done.
func (c *Console) Run(ctx context.Context) error {
	defer c.list.Close()

	c.println("Catálogo de productos. Escriba 'ayuda' para ver los comandos.")
	c.refresh(ctx)

	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		c.printf("%s> ", c.route)
		line, ok := c.readLine()
		if !ok {
			c.println()
			return c.in.Err()
		}
		args := strings.Fields(line)
		if len(args) == 0 {
			continue
		}
		if c.dispatch(ctx, strings.ToLower(args[0]), args[1:]) {
			return nil
		}
	}
}

// dispatch runs one command and reports whether the console should exit.
func (c *Console) dispatch(ctx context.Context, cmd string, args []string) bool {
	switch cmd {
	case "salir":
		return true
	case "ayuda":
		c.println(helpText)
	default:
		if c.route == views.RouteList {
			c.listCommand(ctx, cmd, args)
		} else {
			c.detailCommand(ctx, cmd)
		}
	}
	return false
}

func (c *Console) listCommand(ctx context.Context, cmd string, args []string) {
	switch cmd {
	case "listar":
		c.page = 0
		c.search(ctx, "")
	case "buscar":
		c.page = 0
		c.search(ctx, strings.Join(args, " "))
	case "pagina":
		n, ok := c.intArg(args)
		if !ok {
			return
		}
		c.page = int(n) - 1
		c.render()
	case "ordenar":
		if len(args) == 0 {
			c.println("Uso: ordenar COL [desc]")
			return
		}
		desc := len(args) > 1 && strings.EqualFold(args[1], "desc")
		if _, err := views.SortProductos(nil, args[0], desc); err != nil {
			c.fail(err)
			return
		}
		c.sortColumn, c.sortDesc = args[0], desc
		c.render()
	case "nuevo":
		c.openEditor(ctx, nil)
	case "editar":
		id, ok := c.intArg(args)
		if !ok {
			return
		}
		rec, err := c.lookup(ctx, id)
		if err != nil {
			c.fail(err)
			return
		}
		c.openEditor(ctx, &rec)
	case "eliminar":
		id, ok := c.intArg(args)
		if !ok {
			return
		}
		if err := c.list.Remove(ctx, id); err != nil {
			c.fail(err)
			return
		}
		c.render()
	case "ver":
		id, ok := c.intArg(args)
		if !ok {
			return
		}
		if err := c.detail.Load(ctx, id); err != nil {
			c.fail(err)
			return
		}
		c.Navigate(views.DetailRoute(id))
		c.showDetail()
	default:
		c.printf("Comando desconocido %q. Escriba 'ayuda'.\n", cmd)
	}
}

func (c *Console) detailCommand(ctx context.Context, cmd string) {
	switch cmd {
	case "ver":
		c.showDetail()
	case "editar":
		c.editDetail(ctx)
	case "eliminar":
		if err := c.detail.Remove(ctx); err != nil {
			c.fail(err)
		}
	case "volver":
		c.Navigate(views.RouteList)
	default:
		c.printf("Comando desconocido %q. En el detalle: editar, eliminar, volver.\n", cmd)
	}
	if c.route == views.RouteList {
		c.refresh(ctx)
	}
}

func (c *Console) search(ctx context.Context, term string) {
	if err := c.list.Search(ctx, term); err != nil {
		c.fail(err)
	}
	c.render()
}

func (c *Console) refresh(ctx context.Context) {
	if err := c.list.Refresh(ctx); err != nil {
		c.fail(err)
	}
	c.render()
}

func (c *Console) openEditor(ctx context.Context, rec *models.Producto) {
	result, err := c.list.OpenEditorFor(ctx, rec, c)
	if err != nil {
		c.fail(err)
		return
	}
	if !result.Changed {
		c.println("Edición cancelada.")
		return
	}
	c.render()
}

// lookup prefers the loaded snapshot and falls back to the server.
func (c *Console) lookup(ctx context.Context, id int64) (models.Producto, error) {
	for _, p := range c.list.Snapshot() {
		if p.IDValue() == id {
			return p, nil
		}
	}
	return c.client.GetOne(ctx, id)
}

func (c *Console) editDetail(ctx context.Context) {
	original := c.detail.Current()
	if original.IsNew() {
		c.fail(views.ErrNotLoaded)
		return
	}
	c.printf("Editar producto %d\n", original.IDValue())
	draft := models.NewDraft(&original)
	for {
		edited, ok := c.promptDraft(draft)
		if !ok {
			c.detail.SetCurrent(original)
			c.println("Edición cancelada.")
			return
		}
		draft = edited
		c.detail.SetCurrent(edited.Producto())
		err := c.detail.Save(ctx)
		if err == nil {
			c.showDetail()
			return
		}
		c.fail(err)
	}
}

func (c *Console) render() {
	items := c.list.Snapshot()
	if c.sortColumn != "" {
		sorted, err := views.SortProductos(items, c.sortColumn, c.sortDesc)
		if err == nil {
			items = sorted
		}
	}
	page := views.Paginate(items, c.page, c.pageSize)
	c.page = page.Index

	if page.Total == 0 {
		c.println("No hay productos.")
	} else {
		tw := tabwriter.NewWriter(c.out, 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "ID\tNOMBRE\tDESCRIPCION\tPRECIO\tSTOCK")
		for _, p := range page.Items {
			fmt.Fprintf(tw, "%d\t%s\t%s\t%.2f\t%d\n", p.IDValue(), p.Nombre, p.Descripcion, p.Precio, p.Stock)
		}
		tw.Flush()
	}

	footer := fmt.Sprintf("Página %d de %d, %d productos", page.Index+1, page.Pages, page.Total)
	if term := strings.TrimSpace(c.list.SearchTerm()); term != "" {
		footer += fmt.Sprintf(" (búsqueda %q)", term)
	}
	c.println(footer)
}

func (c *Console) showDetail() {
	p := c.detail.Current()
	tw := tabwriter.NewWriter(c.out, 0, 4, 1, ' ', 0)
	fmt.Fprintf(tw, "ID:\t%d\n", p.IDValue())
	fmt.Fprintf(tw, "Nombre:\t%s\n", p.Nombre)
	fmt.Fprintf(tw, "Descripción:\t%s\n", p.Descripcion)
	fmt.Fprintf(tw, "Precio:\t%.2f\n", p.Precio)
	fmt.Fprintf(tw, "Stock:\t%d\n", p.Stock)
	tw.Flush()
}

func (c *Console) intArg(args []string) (int64, bool) {
	if len(args) == 0 {
		c.println("Falta el número.")
		return 0, false
	}
	n, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil || n <= 0 {
		c.printf("Número inválido %q.\n", args[0])
		return 0, false
	}
	return n, true
}

func (c *Console) fail(err error) {
	var validationErr *apperror.ValidationError
	switch {
	case errors.As(err, &validationErr):
		c.println("Corrija los siguientes campos:")
		for _, v := range validationErr.Violations {
			c.printf("  - %s: %s\n", v.Field, v.Message)
		}
	case errors.Is(err, views.ErrNotConfirmed):
		c.println("Operación cancelada.")
	case apperror.IsNotFound(err):
		c.println("Producto no encontrado.")
	case apperror.IsTransport(err):
		c.printf("No se pudo contactar con el servidor: %v\n", err)
	default:
		c.printf("Error: %v\n", err)
	}
}

func (c *Console) readLine() (string, bool) {
	if !c.in.Scan() {
		return "", false
	}
	return strings.TrimSpace(c.in.Text()), true
}

func (c *Console) printf(format string, args ...interface{}) {
	fmt.Fprintf(c.out, format, args...)
}

func (c *Console) println(args ...interface{}) {
	fmt.Fprintln(c.out, args...)
}
