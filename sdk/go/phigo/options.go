package phigo

// Option configures a Transpiler at creation time.
type Option func(*config)

type config struct {
	profileName  string
	symbols      map[string]string
	symbolsFile  string
	denylistPath string
	strategy     string
	bypass       bool
}

// WithProfile sets the symbol profile (e.g., "phicode").
func WithProfile(name string) Option {
	return func(c *config) { c.profileName = name }
}

// WithSymbols overlays an explicit symbol→replacement mapping. Entries win
// over the profile's on collision.
func WithSymbols(m map[string]string) Option {
	return func(c *config) { c.symbols = m }
}

// WithSymbolsFile overlays a mapping from a JSON or YAML file.
func WithSymbolsFile(path string) Option {
	return func(c *config) { c.symbolsFile = path }
}

// WithDenylist sets the path to a denylist YAML file.
func WithDenylist(path string) Option {
	return func(c *config) { c.denylistPath = path }
}

// WithStrategy selects the matcher strategy: "regex" (default) or
// "automaton".
func WithStrategy(strategy string) Option {
	return func(c *config) { c.strategy = strategy }
}

// WithBypass disables the security gate. Replacements are substituted even
// when they match the denylist.
func WithBypass() Option {
	return func(c *config) { c.bypass = true }
}
