package statement

// Override pins the output buffer length of one procedure parameter whose catalog entry under-reports it.
type Override struct {
	Procedure string `mapstructure:"procedure" yaml:"procedure"`
	Position  int    `mapstructure:"position" yaml:"position"`
	Length    int    `mapstructure:"length" yaml:"length"`
}

// Overrides is a lookup table of Override entries.
type Overrides []Override

// Lookup returns the fixed length for (procedure, position). procedure is the detected, uppercased name and
// must match the configured name exactly.
func (o Overrides) Lookup(procedure string, position int) (int, bool) {
	for _, ov := range o {
		if ov.Position == position && ov.Procedure != "" && ov.Procedure == procedure {
			return ov.Length, true
		}
	}
	return 0, false
}
