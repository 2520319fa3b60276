package settings

import "github.com/shuliakovsky/peer-scoring/pkg/accounting"

type Tracker struct {
	IntervalSec    int `yaml:"intervalSec" json:"intervalSec"`
	MinIntervalSec int `yaml:"minIntervalSec" json:"minIntervalSec"`
}

type Store struct {
	Shards int `yaml:"shards" json:"shards"`
}

type Snapshot struct {
	IntervalSec int `yaml:"intervalSec" json:"intervalSec"` // 0 disables periodic saves
}

type Settings struct {
	Accounting accounting.Policy `yaml:"accounting" json:"accounting"`
	Tracker    Tracker           `yaml:"tracker" json:"tracker"`
	Store      Store             `yaml:"store" json:"store"`
	Snapshot   Snapshot          `yaml:"snapshot" json:"snapshot"`
}
