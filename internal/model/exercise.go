package model

// Exercise is one dictation fragment paired with a learner's attempt
type Exercise struct {
	ID       string `yaml:"id" json:"id"`
	Learner  string `yaml:"learner,omitempty" json:"learner,omitempty"` // Rate limiting key
	Original string `yaml:"original" json:"original"`
	Attempt  string `yaml:"attempt" json:"attempt"`
}

// ExerciseFile is the on-disk layout of a batch input file
type ExerciseFile struct {
	Exercises []Exercise `yaml:"exercises"`
}

// ExerciseResult records how one exercise was scored
type ExerciseResult struct {
	ID         string            `json:"id"`
	Learner    string            `json:"learner,omitempty"`
	Original   string            `json:"original"`
	Attempt    string            `json:"attempt"`
	Result     *ComparisonResult `json:"result,omitempty"`
	Acceptable bool              `json:"acceptable"`
	Error      string            `json:"error,omitempty"`
}
