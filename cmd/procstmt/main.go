package main

import (
	"context"
	"os"

	"github.com/ignaciocaff/procstmt/pkg/logging"
	"github.com/spf13/afero"

	_ "github.com/ignaciocaff/procstmt/pkg/statement/godrorflavor"
	_ "github.com/mattn/go-sqlite3"
	_ "github.com/sijms/go-ora/v2"
)

func main() {
	fs := afero.NewOsFs()
	ctx := context.Background()
	logger := logging.GetLogger()

	if err := NewRootCommand(fs, ctx, logger).Execute(); err != nil {
		logger.Error("procstmt failed", "error", err)
		os.Exit(1)
	}
}
