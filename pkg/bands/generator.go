package bands

import (
	"fmt"
	"time"
)

// Generator turns a report into some output. Execute is called exactly once
// and its result is returned to the caller of GenerateBy unchanged.
type Generator interface {
	Execute() (interface{}, error)
}

// NewGeneratorFunc builds a generator for a report. Generator packages
// return one of these from their constructor so that caller configuration
// travels in the closure:
//
//	out, err := report.GenerateBy(textgen.New(os.Stdout, textgen.WithWidth(100)))
type NewGeneratorFunc func(r *Report) (Generator, error)

// GenerateBy builds a generator for r and executes it. The report does not
// inspect or control what the generator does.
func (r *Report) GenerateBy(newGenerator NewGeneratorFunc) (interface{}, error) {
	if newGenerator == nil {
		return nil, &GenerationError{Cause: fmt.Errorf("no generator given")}
	}

	generator, err := newGenerator(r)
	if err != nil {
		return nil, &GenerationError{Cause: err}
	}
	if generator == nil {
		return nil, &GenerationError{Cause: fmt.Errorf("generator constructor returned nil")}
	}

	name := fmt.Sprintf("%T", generator)
	logger := WithFields(Fields{"report": r.Title, "generator": name})
	logger.Debug().Msg("generation started")
	start := time.Now()

	result, err := generator.Execute()
	if err != nil {
		logger.Debug().Err(err).Msg("generation failed")
		return nil, &GenerationError{Generator: name, Cause: err}
	}

	logger.Debug().Dur("elapsed", time.Since(start)).Msg("generation finished")
	return result, nil
}
