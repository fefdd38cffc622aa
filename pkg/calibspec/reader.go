package calibspec

import (
	"encoding/xml"
	"fmt"
	"math"
	"os"
)

// xmlDocument mirrors the <calibrate> root element schema. encoding/xml
// struct tags do the field-to-attribute mapping; defaulting happens
// afterward in toSpec and validation in Validate, the same two-step shape:
// the XML unmarshal produces a draft value before Validate inspects it.
type xmlDocument struct {
	XMLName xml.Name `xml:"calibrate"`

	Simulator string `xml:"simulator,attr"`
	Evaluator string `xml:"evaluator,attr"`
	Algorithm string `xml:"algorithm,attr"`

	NSimulations int     `xml:"nsimulations,attr"`
	NIterations  int     `xml:"niterations,attr"`
	NBest        int     `xml:"nbest,attr"`
	Tolerance    float64 `xml:"tolerance,attr"`

	NPopulation  int     `xml:"npopulation,attr"`
	NGenerations int     `xml:"ngenerations,attr"`
	Mutation     float64 `xml:"mutation,attr"`
	Reproduction float64 `xml:"reproduction,attr"`
	Adaptation   float64 `xml:"adaptation,attr"`

	Experiments []xmlExperiment `xml:"experiment"`
	Variables   []xmlVariable   `xml:"variable"`
}

type xmlExperiment struct {
	Name   string  `xml:"name,attr"`
	Weight float64 `xml:"weight,attr"`

	Template1 string `xml:"template1,attr"`
	Template2 string `xml:"template2,attr"`
	Template3 string `xml:"template3,attr"`
	Template4 string `xml:"template4,attr"`
	Template5 string `xml:"template5,attr"`
	Template6 string `xml:"template6,attr"`
	Template7 string `xml:"template7,attr"`
	Template8 string `xml:"template8,attr"`
}

func (e xmlExperiment) templates() [MaxInputs]string {
	return [MaxInputs]string{
		e.Template1, e.Template2, e.Template3, e.Template4,
		e.Template5, e.Template6, e.Template7, e.Template8,
	}
}

type xmlVariable struct {
	Name            string  `xml:"name,attr"`
	Minimum         float64 `xml:"minimum,attr"`
	Maximum         float64 `xml:"maximum,attr"`
	MinimumAbsolute *float64 `xml:"minimum_absolute,attr"`
	MaximumAbsolute *float64 `xml:"maximum_absolute,attr"`
	Format          string  `xml:"format,attr"`
	NSweeps         int     `xml:"nsweeps,attr"`
	NBits           int     `xml:"nbits,attr"`
}

// ReadFile parses and validates a calibration document from path.
func ReadFile(path string) (*CalibrationSpec, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading calibration document: %w", err)
	}
	return Parse(data)
}

// Parse parses and validates a calibration document from raw XML bytes.
func Parse(data []byte) (*CalibrationSpec, error) {
	var doc xmlDocument
	if err := xml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: malformed xml: %v", ErrConfig, err)
	}
	spec, err := doc.toSpec()
	if err != nil {
		return nil, err
	}
	if err := spec.Validate(); err != nil {
		return nil, err
	}
	return spec, nil
}

func (d *xmlDocument) toSpec() (*CalibrationSpec, error) {
	algo, err := ParseAlgorithm(d.Algorithm)
	if err != nil {
		return nil, err
	}

	spec := &CalibrationSpec{
		Simulator:    d.Simulator,
		Evaluator:    d.Evaluator,
		Algorithm:    algo,
		NSimulations: d.NSimulations,
		NIterations:  d.NIterations,
		NBest:        d.NBest,
		Tolerance:    d.Tolerance,
		NPopulation:  d.NPopulation,
		NGenerations: d.NGenerations,
		Mutation:     d.Mutation,
		Reproduction: d.Reproduction,
		Adaptation:   d.Adaptation,
	}

	for _, xe := range d.Experiments {
		// The name attribute doubles as the ground-truth data path, just as
		// the original reader stores it straight into input->experiment[n]
		// without a separate data-file attribute.
		e := Experiment{
			Name:     xe.Name,
			DataFile: xe.Name,
			HasData:  xe.Name != "",
			Weight:   xe.Weight,
			Template: xe.templates(),
		}
		if e.Weight == 0 {
			e.Weight = 1 // unweighted experiments count equally, matching the original default
		}
		spec.Experiments = append(spec.Experiments, e)
	}

	for _, xv := range d.Variables {
		v := Variable{
			Name:     xv.Name,
			RangeMin: xv.Minimum,
			RangeMax: xv.Maximum,
			Format:   xv.Format,
			NSweeps:  xv.NSweeps,
			NBits:    xv.NBits,
		}
		// Fixed from the original reader, which read ABSOLUTE_MINIMUM for
		// both ends: minimum_absolute and maximum_absolute are now read as
		// distinct attributes, each defaulting to -Inf/+Inf (unclamped) when
		// the document omits it, matching variable.c's rangeminabs default
		// of -G_MAXDOUBLE and calibrator.c's -INFINITY/INFINITY defaults.
		if xv.MinimumAbsolute != nil {
			v.AbsMin = *xv.MinimumAbsolute
			v.HasAbsMin = true
		} else {
			v.AbsMin = math.Inf(-1)
		}
		if xv.MaximumAbsolute != nil {
			v.AbsMax = *xv.MaximumAbsolute
			v.HasAbsMax = true
		} else {
			v.AbsMax = math.Inf(1)
		}
		if v.Format == "" {
			v.Format = DefaultFormat
		}
		spec.Variables = append(spec.Variables, v)
	}

	return spec, nil
}
