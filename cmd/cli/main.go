package main

import (
	"context"
	"fmt"
	"os"

	"go-bankist/app"
	"go-bankist/config"
	"go-bankist/logger"
	"go-bankist/service"

	"github.com/sirupsen/logrus"
	"golang.org/x/term"
)

func main() {
	if err := config.LoadConfig("."); err != nil {
		fmt.Fprintln(os.Stderr, "Error loading configuration:", err)
		os.Exit(1)
	}
	logger.Init()
	logger.Log.SetOutput(os.Stderr)
	if os.Getenv("LOG_LEVEL") == "" {
		logger.Log.SetLevel(logrus.WarnLevel)
	}

	c := &console{out: os.Stdout}
	if fd := int(os.Stdin.Fd()); term.IsTerminal(fd) {
		c.secret = func() ([]byte, error) { return term.ReadPassword(fd) }
	}

	a, err := app.New(context.Background(), service.SessionHooks{OnExpire: c.onExpire})
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error starting:", err)
		os.Exit(1)
	}
	defer a.Close()

	c.sessions = a.Sessions
	c.statements = a.Statements
	c.run(context.Background(), os.Stdin)
}
