package cli

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/alexanderramin/prescreen/internal/catalog"
	"github.com/alexanderramin/prescreen/internal/domain"
	"github.com/alexanderramin/prescreen/internal/wizard"
	"gopkg.in/yaml.v3"
)

var errNoAnswers = errors.New("--answers is required")

// loadAnswers reads a YAML or JSON answers file into a Field Map.
// "-" reads from stdin. Yes/no questions accept yes, no, true or false.
func loadAnswers(path string, stdin io.Reader) (domain.FieldMap, error) {
	if path == "" {
		return nil, errNoAnswers
	}

	var data []byte
	var err error
	if path == "-" {
		data, err = io.ReadAll(stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, fmt.Errorf("reading answers: %w", err)
	}

	fields := domain.FieldMap{}
	if len(bytes.TrimSpace(data)) == 0 {
		return fields, nil
	}
	if err := yaml.Unmarshal(data, &fields); err != nil {
		return nil, fmt.Errorf("parsing answers: %w", err)
	}
	if fields == nil {
		fields = domain.FieldMap{}
	}
	fields.CoerceYesNo()
	return fields, nil
}

// checkAnswers rejects fields the flow does not collect and pain areas
// missing from the catalog.
func checkAnswers(fields domain.FieldMap, flow *wizard.Flow, cat *catalog.Catalog) error {
	var errs []error
	if unknown := fields.Unknown(flow.Fields()); len(unknown) > 0 {
		names := make([]string, len(unknown))
		for i, f := range unknown {
			names[i] = string(f)
		}
		errs = append(errs, fmt.Errorf("%w for flow %s: %s", wizard.ErrUnknownField, flow.Name(), strings.Join(names, ", ")))
	}
	if ids, ok := fields[domain.FieldPainAreas].AsRegions(); ok {
		for _, id := range ids {
			if !cat.Has(id) {
				errs = append(errs, fmt.Errorf("unknown body region %q", id))
			}
		}
	}
	return errors.Join(errs...)
}

// stepAnswers returns the subset of fields owned by step.
func stepAnswers(step wizard.StepDescriptor, fields domain.FieldMap) domain.FieldMap {
	partial := make(domain.FieldMap, len(step.Fields))
	for _, f := range step.Fields {
		if v, ok := fields[f]; ok {
			partial[f] = v
		}
	}
	return partial
}
