package main

import (
	"fmt"
	"os"

	"github.com/arf-rpc/toolbox/internal/cli"
)

const (
	cmdName = "toolbox"

	shortDesc = "Encoding, crypto, date and identifier helpers."
	longDesc  = `toolbox exposes the helpers of the arf-rpc toolbox library on the
command line: hex and base64 codecs, SHA-256, HMAC and password based AES-GCM,
date formatting, identifier normalization, and a queue backed line pipeline.
`
)

func main() {
	cmd := cli.NewRootCmd(cmdName, shortDesc, longDesc)
	if err := cmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
