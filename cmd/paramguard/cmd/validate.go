package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/dmitrymomot/paramguard/pkg/binder"
	"github.com/dmitrymomot/paramguard/pkg/logger"
	"github.com/dmitrymomot/paramguard/pkg/validator"
)

type report struct {
	Valid  bool          `json:"valid"`
	Errors []reportError `json:"errors,omitempty"`
}

type reportError struct {
	Field   string `json:"field"`
	Desc    string `json:"desc"`
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

func (a *app) validateCommand() *cobra.Command {
	var (
		name  string
		group string
		lang  = a.cfg.Lang
	)

	cmd := &cobra.Command{
		Use:   "validate [file.json|-]",
		Short: "Validate a JSON document against a schema",
		Long: `Validate reads one JSON object from the given file, or from stdin when the
argument is "-" or missing, and checks it against the named schema.

The outcome is printed as JSON. The exit code is 0 for a valid document,
1 when validation fails and 2 for any other error.`,
		Example: `  paramguard validate --schema-file schemas.yaml --schema user user.json
  cat user.json | paramguard validate --schema user --group create --lang zh`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if name == "" {
				return ErrNoSchemaName
			}
			input := "-"
			if len(args) == 1 {
				input = args[0]
			}
			return a.runValidate(cmd, name, group, lang, input)
		},
	}

	cmd.Flags().StringVarP(&name, "schema", "s", "", "name of the schema to validate against")
	cmd.Flags().StringVarP(&group, "group", "g", "", "validate only the fields of this group")
	cmd.Flags().StringVarP(&lang, "lang", "l", lang, "message language, accepts an Accept-Language value")
	return cmd
}

func (a *app) runValidate(cmd *cobra.Command, name, group, lang, input string) error {
	reg, err := a.registry()
	if err != nil {
		return err
	}
	catalog, err := a.catalog()
	if err != nil {
		return err
	}

	data, err := readInput(cmd.InOrStdin(), input)
	if err != nil {
		return err
	}
	values, err := binder.FromJSON(data)
	if err != nil {
		return err
	}

	if group == "" {
		err = reg.Validate(name, values)
	} else {
		err = reg.ValidateGroup(name, group, values)
	}
	errs := validator.ExtractValidationErrors(err)
	if err != nil && errs == nil {
		return err
	}

	lang = catalog.Match(lang)
	errs = catalog.Translate(lang, errs)

	log := a.log.With(logger.Schema(name), logger.ValidationGroup(group), slog.String("lang", lang))
	if len(errs) > 0 {
		log.InfoContext(cmd.Context(), "validation failed",
			logger.Count(len(errs)),
			slog.Any("fields", errs.Fields()),
		)
	} else {
		log.DebugContext(cmd.Context(), "validation passed")
	}

	if err := writeReport(cmd.OutOrStdout(), errs); err != nil {
		return err
	}
	if len(errs) > 0 {
		return errInvalidInput
	}
	return nil
}

func readInput(stdin io.Reader, input string) ([]byte, error) {
	if input == "-" {
		data, err := io.ReadAll(stdin)
		if err != nil {
			return nil, fmt.Errorf("read stdin: %w", err)
		}
		return data, nil
	}
	data, err := os.ReadFile(input)
	if err != nil {
		return nil, fmt.Errorf("read input: %w", err)
	}
	return data, nil
}

func writeReport(w io.Writer, errs validator.ValidationErrors) error {
	r := report{Valid: len(errs) == 0}
	for _, e := range errs {
		r.Errors = append(r.Errors, reportError{
			Field:   e.Field,
			Desc:    e.Desc,
			Kind:    e.Kind.String(),
			Message: e.Message,
		})
	}
	return json.NewEncoder(w).Encode(r)
}
