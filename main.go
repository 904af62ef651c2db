package main

import (
	"os"

	"github.com/sirupsen/logrus"

	"github.com/ezavesky/metadata-flatten-extractor-sub000/cmd"
)

func main() {
	if err := cmd.NewRootCmd().Execute(); err != nil {
		logrus.WithError(err).Error("command failed")
		os.Exit(1)
	}
}
