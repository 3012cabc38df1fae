package model

// Role is the subject's position in the case under examination
type Role string

const (
	RoleSuspect Role = "suspect"
	RoleVictim  Role = "victim"
)

// Valid reports whether the role is one of the known values
func (r Role) Valid() bool {
	return r == RoleSuspect || r == RoleVictim
}

// OffenseCategories maps each offense category to its selectable subtypes,
// as presented on the intake screen. Categories without listed subtypes fall
// back to free-text entry.
var OffenseCategories = map[string][]string{
	"실험참여":  {"빨간 버튼을 클릭"},
	"성범죄":   {"성희롱", "강제추행", "강간", "불법촬영", "기타"},
	"폭력범죄":  {"폭행", "상해", "협박", "체포·감금", "기타"},
	"재산범죄":  {"기타"},
	"공무원범죄": {"기타"},
	"사이버범죄": {"기타"},
	"교통범죄":  {"기타"},
	"성매매":   {"기타"},
	"마약":    {"기타"},
	"기타":    {"기타"},
}

// CaseInfo is the subject/case record collected at intake. Offense fields
// are immutable after intake validates; the core claim is derived from role
// and offense text and must agree with the role (denial for a suspect,
// accusation for a victim).
type CaseInfo struct {
	Role            Role   `json:"role" bson:"role"`
	RoleLabel       string `json:"roleLabel,omitempty" bson:"roleLabel,omitempty"`
	OffenseCategory string `json:"offenseCategory" bson:"offenseCategory"`
	OffenseType     string `json:"offenseType,omitempty" bson:"offenseType,omitempty"`
	OffenseFree     string `json:"offenseFree,omitempty" bson:"offenseFree,omitempty"`
	OffenseText     string `json:"offenseText" bson:"offenseText"`
	CoreClaim       string `json:"coreClaim" bson:"coreClaim"`

	Name   string `json:"name" bson:"name"`
	Gender string `json:"gender" bson:"gender"`
	Age    int    `json:"age" bson:"age"`

	// Physiological/context covariates recorded alongside the exam
	SleepHours int    `json:"sleepHours" bson:"sleepHours"`
	MedUse     bool   `json:"medUse" bson:"medUse"`
	MedDetail  string `json:"medDetail,omitempty" bson:"medDetail,omitempty"`
	Alcohol    bool   `json:"alcohol" bson:"alcohol"`
	Smoking    bool   `json:"smoking" bson:"smoking"`
	Caffeine   bool   `json:"caffeine" bson:"caffeine"`

	Consent bool `json:"consent" bson:"consent"`
}
