package gpu

import (
	"errors"
	"fmt"

	"github.com/gogpu/naga"
	"github.com/gogpu/naga/ir"
)

// Entry points every quad shader must define.
const (
	VertexEntryPoint   = "vs_main"
	FragmentEntryPoint = "fs_main"
)

// ValidateShader parses, lowers and validates WGSL source with naga and checks
// that it defines vs_main as a vertex stage and fs_main as a fragment stage.
//
// Errors wrap ErrShaderCompile or ErrMissingEntryPoint.
func ValidateShader(source string) error {
	if source == "" {
		return fmt.Errorf("%w: empty source", ErrShaderCompile)
	}

	ast, err := naga.Parse(source)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrShaderCompile, err)
	}
	module, err := naga.LowerWithSource(ast, source)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrShaderCompile, err)
	}

	verrs, err := naga.Validate(module)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrShaderCompile, err)
	}
	if len(verrs) > 0 {
		errs := make([]error, len(verrs))
		for i, ve := range verrs {
			errs[i] = ve
		}
		return fmt.Errorf("%w: %w", ErrShaderCompile, errors.Join(errs...))
	}

	if err := requireEntryPoint(module, VertexEntryPoint, ir.StageVertex); err != nil {
		return err
	}
	return requireEntryPoint(module, FragmentEntryPoint, ir.StageFragment)
}

func requireEntryPoint(module *ir.Module, name string, stage ir.ShaderStage) error {
	for _, ep := range module.EntryPoints {
		if ep.Name != name {
			continue
		}
		if ep.Stage != stage {
			return fmt.Errorf("%w: %s has stage %v", ErrMissingEntryPoint, name, ep.Stage)
		}
		return nil
	}
	return fmt.Errorf("%w: %s", ErrMissingEntryPoint, name)
}
