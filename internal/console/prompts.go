package console

import (
	"context"
	"strconv"
	"strings"

	"productos/internal/models"
	"productos/internal/views"
)

// cancelWord discards the edit at any field prompt.
const cancelWord = "cancelar"

var yes = map[string]bool{"s": true, "si": true, "sí": true, "y": true, "yes": true}

// Confirm asks a yes/no question. Anything but an explicit yes is a no.
func (c *Console) Confirm(_ context.Context, prompt string) bool {
	c.printf("%s [s/N]: ", prompt)
	line, ok := c.readLine()
	if !ok {
		c.println()
		return false
	}
	return yes[strings.ToLower(line)]
}

// Notify prints a success message.
func (c *Console) Notify(message string) {
	c.println(message)
}

// Navigate switches the console between the list and a detail route.
func (c *Console) Navigate(route string) {
	c.route = route
}

// Drive prompts for every field of the editor draft until a submit
// succeeds or the user cancels.
func (c *Console) Drive(ctx context.Context, editor *views.Editor) {
	if editor.Mode() == views.ModeEdit {
		c.printf("Editar producto %d\n", editor.ID())
	} else {
		c.println("Nuevo producto")
	}

	draft := editor.Draft()
	for {
		edited, ok := c.promptDraft(draft)
		if !ok {
			editor.Cancel()
			return
		}
		draft = edited
		if err := editor.SetDraft(edited); err != nil {
			return
		}
		err := editor.Submit(ctx)
		if err == nil {
			return
		}
		c.fail(err)
		if ctx.Err() != nil {
			editor.Cancel()
			return
		}
	}
}

// promptDraft asks for each field showing its current value. An empty
// answer keeps the value. It returns false when the user cancels or the
// input ends.
func (c *Console) promptDraft(d models.Draft) (models.Draft, bool) {
	c.printf("(Enter conserva el valor, '%s' descarta los cambios)\n", cancelWord)
	out := d.Clone()
	var ok bool

	if out.Nombre, ok = c.promptText("nombre", d.Nombre); !ok {
		return models.Draft{}, false
	}
	if out.Descripcion, ok = c.promptText("descripcion", d.Descripcion); !ok {
		return models.Draft{}, false
	}
	if out.Precio, ok = promptNumber(c, "precio", d.Precio, formatFloat, parseFloat); !ok {
		return models.Draft{}, false
	}
	if out.Stock, ok = promptNumber(c, "stock", d.Stock, strconv.Itoa, strconv.Atoi); !ok {
		return models.Draft{}, false
	}
	return out, true
}

func (c *Console) promptText(label, current string) (string, bool) {
	c.printf("  %s [%s]: ", label, current)
	line, ok := c.readLine()
	if !ok || strings.EqualFold(line, cancelWord) {
		return "", false
	}
	if line == "" {
		return current, true
	}
	return line, true
}

// promptNumber re-asks until the answer parses.
func promptNumber[T any](c *Console, label string, current *T, format func(T) string, parse func(string) (T, error)) (*T, bool) {
	shown := ""
	if current != nil {
		shown = format(*current)
	}
	for {
		c.printf("  %s [%s]: ", label, shown)
		line, ok := c.readLine()
		if !ok || strings.EqualFold(line, cancelWord) {
			return nil, false
		}
		if line == "" {
			return current, true
		}
		v, err := parse(line)
		if err != nil {
			c.printf("  valor inválido %q\n", line)
			continue
		}
		return &v, true
	}
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// parseFloat accepts a comma as decimal separator.
func parseFloat(s string) (float64, error) {
	return strconv.ParseFloat(strings.Replace(s, ",", ".", 1), 64)
}
