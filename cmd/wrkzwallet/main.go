// Command wrkzwallet is a stub entrypoint: the full interactive CLI
// (prompting for destinations, listing transaction history, managing
// multiple subwallets interactively) is out of this module's scope per
// spec.md's Non-goals. This binary gives the wallet package a real caller
// for create_new and open, in the shape a front-end would use them; the
// other lifecycle operations are exercised only from tests.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"os"

	"github.com/wrkzcoin/wrkzcoin-sub002/build"
	"github.com/wrkzcoin/wrkzcoin-sub002/wallet"
)

func main() {
	var (
		action    = flag.String("action", "", "create|open")
		file      = flag.String("file", "", "wallet file path")
		daemonURL = flag.String("daemon", "http://127.0.0.1:11898", "daemon base URL")
		profile   = flag.String("profile", "", "optional YAML connection profile path")
	)
	flag.Parse()

	log := build.NewLogger(os.Stderr, "wrkzwallet")
	cfg := wallet.Config{Log: log}

	if *profile != "" {
		p, err := wallet.LoadConnectionProfile(*profile)
		if err != nil {
			log.WithError(err).Fatal("loading connection profile")
		}
		cfg = p.ToConfig()
		cfg.Log = log
		*daemonURL = p.DaemonURL
	}

	if *file == "" {
		fmt.Fprintln(os.Stderr, "usage: wrkzwallet -action create|open -file <path> [-daemon <url>] [-profile <path>]")
		os.Exit(2)
	}

	password := readPassword()

	switch *action {
	case "create":
		w, phrase, err := wallet.CreateNew(*file, password, *daemonURL, cfg)
		if err != nil {
			log.WithError(err).Fatal("create_new failed")
		}
		fmt.Println("seed phrase (write this down):")
		fmt.Println(phrase.String())
		runInteractive(w)
	case "open":
		w, err := wallet.Open(*file, password, *daemonURL, cfg)
		if err != nil {
			log.WithError(err).Fatal("open failed")
		}
		runInteractive(w)
	default:
		fmt.Fprintf(os.Stderr, "unknown action %q\n", *action)
		os.Exit(2)
	}
}

func readPassword() string {
	fmt.Print("password: ")
	reader := bufio.NewReader(os.Stdin)
	line, _ := reader.ReadString('\n')
	return trimNewline(line)
}

func trimNewline(s string) string {
	for len(s) > 0 && (s[len(s)-1] == '\n' || s[len(s)-1] == '\r') {
		s = s[:len(s)-1]
	}
	return s
}

// runInteractive is deliberately minimal: spec.md's Non-goals exclude a
// full interactive shell. It prints the wallet summary once and saves the
// wallet; it does not Start or Stop synchronization.
func runInteractive(w *wallet.Wallet) {
	fmt.Println(w.String())
	if err := w.Save(); err != nil {
		fmt.Fprintln(os.Stderr, "save failed:", err)
	}
}
