package formatcache

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"golang.org/x/text/language"

	"github.com/arangodb/aql-engine/regmap"
)

func TestPrinterIsCachedPerRegister(t *testing.T) {
	c := New(language.English)
	p1 := c.Printer(regmap.Register(0))
	p2 := c.Printer(regmap.Register(0))
	p3 := c.Printer(regmap.Register(1))

	assert.Same(t, p1, p2)
	assert.NotSame(t, p1, p3)
}

func TestFormatIntUsesLocaleGrouping(t *testing.T) {
	c := New(language.English)
	out := c.FormatInt(regmap.Register(0), 1234567)
	assert.Equal(t, "1,234,567", out)
}

func TestResetClearsCachedPrinters(t *testing.T) {
	c := New(language.English)
	p1 := c.Printer(regmap.Register(0))
	c.Reset()
	p2 := c.Printer(regmap.Register(0))
	assert.NotSame(t, p1, p2)
}
