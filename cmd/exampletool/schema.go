package main

import (
	"github.com/Tutortoise/example-decoder/models"
	"github.com/Tutortoise/example-decoder/schema"
	"github.com/urfave/cli/v2"
)

func schemaAction(c *cli.Context) error {
	formatter, err := getFormatter(c)
	if err != nil {
		return err
	}
	cfg := decoderConfig(c)
	s := schema.New(schema.Options{
		IncludeMask:         cfg.IncludeMask,
		RegenerateSourceID:  cfg.RegenerateSourceID,
		ActivatePseudoScore: cfg.ActivatePseudoScore,
	})
	return formatter.WriteSchema(c.App.Writer, models.NewSchemaFields(s.Fields()))
}
