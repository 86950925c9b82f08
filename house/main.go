package main

import (
	"context"
	"fmt"
	"os"

	"github.com/LumeraProtocol/fairdice/house/cmd"
	"github.com/LumeraProtocol/fairdice/pkg/errors"
	"github.com/LumeraProtocol/fairdice/pkg/logtrace"
)

func main() {
	defer errors.Recover(func(err error) {
		logtrace.Error(context.Background(), "panic", logtrace.Fields{
			logtrace.FieldError:      err.Error(),
			logtrace.FieldStackTrace: errors.Stack(err),
		})
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	})

	logtrace.Setup("fairdice")
	cmd.Execute()
}
