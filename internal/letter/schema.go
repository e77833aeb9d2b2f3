package letter

// Field names matching the placeholders in the demand-letter template.
const (
	FieldDate                     = "date"
	FieldDefendant                = "defendant"
	FieldStreetAddress            = "street_address"
	FieldStateAddress             = "state_address"
	FieldPlaintiffFullName        = "plaintiff_full_name"
	FieldPronoun                  = "pronoun"
	FieldClauses                  = "clauses"
	FieldMrMsLastName             = "mr_ms_last_name"
	FieldStartDate                = "start_date"
	FieldJobTitle                 = "job_title"
	FieldHourlyWageAnnualSalary   = "hourly_wage_annual_salary"
	FieldEndDate                  = "end_date"
	FieldWrongfulTermination      = "paragraphs_concerning_wrongful_termination"
	FieldLaborCodeViolations      = "paragraphs_concerning_labor_code_violations"
	FieldDeleteAOrB               = "delete_a_or_b"
	FieldDamagesFormatted         = "damages_formatted"
	FieldConclusion               = "conclusion"
	FieldCompanyName              = "company_name"
	FieldClientName               = "client_name"
)

// SchemaFields lists every field the template schema defines. A field record
// missing any of these still resolves it, as an empty value.
var SchemaFields = []string{
	FieldDate,
	FieldDefendant,
	FieldStreetAddress,
	FieldStateAddress,
	FieldPlaintiffFullName,
	FieldPronoun,
	FieldClauses,
	FieldMrMsLastName,
	FieldStartDate,
	FieldJobTitle,
	FieldHourlyWageAnnualSalary,
	FieldEndDate,
	FieldWrongfulTermination,
	FieldLaborCodeViolations,
	FieldDeleteAOrB,
	FieldDamagesFormatted,
	FieldConclusion,
	FieldCompanyName,
	FieldClientName,
}

// Style is the fixed styling class assigned to a field.
type Style int

const (
	StylePlain Style = iota
	StyleBold
	StyleBoldUnderline
)

// Static style tables. Fields absent from both sets render as plain text.
var boldFields = map[string]struct{}{
	FieldDefendant:              {},
	FieldStreetAddress:          {},
	FieldStateAddress:           {},
	FieldPlaintiffFullName:      {},
	FieldPronoun:                {},
	FieldMrMsLastName:           {},
	FieldStartDate:              {},
	FieldJobTitle:               {},
	FieldHourlyWageAnnualSalary: {},
	FieldEndDate:                {},
	FieldCompanyName:            {},
	FieldClientName:             {},
	FieldDamagesFormatted:       {},
}

var boldUnderlineFields = map[string]struct{}{
	FieldDate: {},
}

func (s Style) String() string {
	switch s {
	case StyleBold:
		return "bold"
	case StyleBoldUnderline:
		return "bold_underline"
	default:
		return "plain"
	}
}

// StyleOf returns the styling class for a field name. Unknown fields are plain.
func StyleOf(name string) Style {
	if _, ok := boldUnderlineFields[name]; ok {
		return StyleBoldUnderline
	}
	if _, ok := boldFields[name]; ok {
		return StyleBold
	}
	return StylePlain
}
