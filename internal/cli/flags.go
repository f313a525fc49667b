package cli

import (
	"strings"

	"github.com/mhpenta/nanobanana"
	"github.com/samber/lo"
	"github.com/spf13/pflag"
)

// aspectFlag is a pflag.Value restricted to nanobanana.AspectRatios.
type aspectFlag struct {
	value *nanobanana.AspectRatio
}

var _ pflag.Value = aspectFlag{}

func (f aspectFlag) String() string {
	if f.value == nil {
		return ""
	}
	return f.value.String()
}

func (f aspectFlag) Set(s string) error {
	a, err := nanobanana.ParseAspectRatio(s)
	if err != nil {
		return err
	}
	*f.value = a
	return nil
}

func (f aspectFlag) Type() string { return "ratio" }

// sizeFlag is a pflag.Value restricted to nanobanana.ImageSizes.
type sizeFlag struct {
	value *nanobanana.ImageSize
}

var _ pflag.Value = sizeFlag{}

func (f sizeFlag) String() string {
	if f.value == nil {
		return ""
	}
	return f.value.String()
}

func (f sizeFlag) Set(s string) error {
	size, err := nanobanana.ParseImageSize(s)
	if err != nil {
		return err
	}
	*f.value = size
	return nil
}

func (f sizeFlag) Type() string { return "size" }

func aspectUsage(def string) string {
	choices := strings.Join(lo.Map(nanobanana.AspectRatios, func(a nanobanana.AspectRatio, _ int) string { return a.String() }), ", ")
	return "Aspect ratio (" + choices + ")" + lo.Ternary(def == "", ", unset keeps the input shape", "")
}

func sizeUsage() string {
	return "Image resolution (" + strings.Join(lo.Map(nanobanana.ImageSizes, func(s nanobanana.ImageSize, _ int) string { return s.String() }), ", ") + ")"
}

// imageFlags registers --aspect and, unless size is nil, --size.
func imageFlags(flags *pflag.FlagSet, aspect *nanobanana.AspectRatio, size *nanobanana.ImageSize) {
	flags.Var(aspectFlag{aspect}, "aspect", aspectUsage(aspect.String()))
	if size != nil {
		flags.Var(sizeFlag{size}, "size", sizeUsage())
	}
}
