package constants

// Enumerated value sets accepted by the written tables.
var (
	Genders          = []string{"male", "female", "other"}
	Titles           = []string{"ms", "mr", "miss", "mrs"}
	Salutations      = []string{"shri", "late"}
	EmployeeStatuses = []string{"active", "disable"}
	PrimaryRelations = []string{"d_o", "s_o", "w_o"}
	DepartTypes      = []string{"technical", "non technical"}
	YesNo            = []string{"yes", "no"}
	EmploymentTypes  = []string{"parttime", "fulltime", "freelance", "contract", "incentive"}
	AdhocTypes       = []string{"Default", "Manual"}
)

// Values written when the spreadsheet carries no column for them.
const (
	DefaultCountryISO         = "India"
	DefaultRelPersonName      = ""
	DefaultAuthSign           = ""
	DefaultAvatarSymbol       = ""
	DefaultSalutation         = "shri"
	DefaultEmployeeStatus     = "active"
	DefaultPrimaryRelation    = "s_o"
	DefaultIsMarried          = 0
	DefaultEmailVerified      = 1
	DefaultMobileVerified     = 1
	DefaultModifiedBy         = 0
	DefaultDepartType         = "technical"
	DefaultWeekendOff         = "yes"
	DefaultWorkingWeekDays    = 5
	DefaultFiscalYear         = "yes"
	DefaultDailyWage          = 0
	DefaultIsPermanent        = 1
	DefaultEmploymentType     = "fulltime"
	DefaultCompanyWorkingDays = 30
	DefaultBasicSalary        = 0
)
