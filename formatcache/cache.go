// Package formatcache implements the Number/String format helper
// collaborator of spec.md §6: locale-aware formatting with one
// formatter instance cached per field register, reset on
// InitializeCursor.
//
// Grounded on spec.md §6's description directly (vfilter has no
// locale-formatting concept); golang.org/x/text is already a teacher
// dependency (go.mod), so golang.org/x/text/number and
// golang.org/x/text/message are the direct extension of that existing
// dependency into this concern rather than a hand-rolled formatter.
package formatcache

import (
	"sync"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"

	"github.com/arangodb/aql-engine/regmap"
)

// Cache holds one *message.Printer per field register, all sharing a
// single locale. Printers are cheap to keep around but not free to
// construct, so they are built lazily and reused across rows of the
// same plan node (spec.md §6: "Caching of one formatter instance per
// field register is mandatory").
type Cache struct {
	locale language.Tag

	mu       sync.Mutex
	printers map[regmap.Register]*message.Printer
}

// New builds a Cache formatting with the given locale.
func New(locale language.Tag) *Cache {
	return &Cache{locale: locale, printers: map[regmap.Register]*message.Printer{}}
}

// Printer returns the cached *message.Printer for reg, building one on
// first use.
func (c *Cache) Printer(reg regmap.Register) *message.Printer {
	c.mu.Lock()
	defer c.mu.Unlock()
	p, ok := c.printers[reg]
	if !ok {
		p = message.NewPrinter(c.locale)
		c.printers[reg] = p
	}
	return p
}

// FormatDecimal renders v through reg's cached printer as a
// locale-aware decimal (thousands separators, decimal mark).
func (c *Cache) FormatDecimal(reg regmap.Register, v float64) string {
	return c.Printer(reg).Sprint(number.Decimal(v))
}

// FormatInt renders v through reg's cached printer as a locale-aware
// integer.
func (c *Cache) FormatInt(reg regmap.Register, v int64) string {
	return c.Printer(reg).Sprint(number.Decimal(v))
}

// FormatPercent renders v through reg's cached printer as a
// locale-aware percentage.
func (c *Cache) FormatPercent(reg regmap.Register, v float64) string {
	return c.Printer(reg).Sprint(number.Percent(v))
}

// Reset discards every cached printer, so the next Printer call for a
// register builds a fresh one. No block's InitializeCursor calls it.
func (c *Cache) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.printers = map[regmap.Register]*message.Printer{}
}
