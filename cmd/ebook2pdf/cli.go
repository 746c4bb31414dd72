package main

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	Config  string `short:"c" env:"EBOOK2PDF_CONFIG" default:"config.yml" help:"Path to the YAML config file; a missing file means defaults"`
	Addr    string `help:"Listen address, overrides the config port (e.g. 127.0.0.1:8080)"`
	Verbose bool   `short:"v" help:"Enable debug logging"`
}
