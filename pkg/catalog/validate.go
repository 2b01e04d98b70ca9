package catalog

import (
	"github.com/matzehuels/ledwall/pkg/errors"
)

// ValidateModule rejects modules the layout engine cannot work with.
func ValidateModule(m Module) error {
	if err := errors.ValidateName(m.Name); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidModule, err, "module %q", m.ID)
	}
	if m.ID != "" {
		if err := errors.ValidateID(m.ID); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidModule, err, "module %q", m.Name)
		}
	}
	switch {
	case m.PixelsW <= 0 || m.PixelsH <= 0:
		return errors.New(errors.ErrCodeInvalidModule, "module %q: pixel resolution must be positive (got %dx%d)", m.ID, m.PixelsW, m.PixelsH)
	case m.WidthCm <= 0 || m.HeightCm <= 0:
		return errors.New(errors.ErrCodeInvalidModule, "module %q: physical size must be positive (got %gx%g cm)", m.ID, m.WidthCm, m.HeightCm)
	case m.WeightKg < 0:
		return errors.New(errors.ErrCodeInvalidModule, "module %q: weight cannot be negative", m.ID)
	case m.PowerWm2 < 0:
		return errors.New(errors.ErrCodeInvalidModule, "module %q: power cannot be negative", m.ID)
	case m.HangingPoints < 0:
		return errors.New(errors.ErrCodeInvalidModule, "module %q: hanging points cannot be negative", m.ID)
	}
	return nil
}

// ValidateProcessor rejects processors the layout engine cannot work with.
func ValidateProcessor(p Processor) error {
	if err := errors.ValidateName(p.DisplayName()); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidProcessor, err, "processor %q", p.ID)
	}
	if p.ID != "" {
		if err := errors.ValidateID(p.ID); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidProcessor, err, "processor %q", p.DisplayName())
		}
	}
	switch {
	case p.Outputs < 1:
		return errors.New(errors.ErrCodeInvalidProcessor, "processor %q: outputs must be at least 1", p.ID)
	case p.TotalPixels < 1:
		return errors.New(errors.ErrCodeInvalidProcessor, "processor %q: total pixels must be at least 1", p.ID)
	case p.MaxWidth < 0 || p.MaxHeight < 0:
		return errors.New(errors.ErrCodeInvalidProcessor, "processor %q: max resolution cannot be negative", p.ID)
	case p.MaxModulesPerOutput < 0:
		return errors.New(errors.ErrCodeInvalidProcessor, "processor %q: max modules per output cannot be negative", p.ID)
	}
	return nil
}
