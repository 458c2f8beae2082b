package certificate

type InstitutionType string

const (
	TypeInstitution InstitutionType = "institution"
	TypeSchool      InstitutionType = "school"
	TypeCollege     InstitutionType = "college"
)

type Option struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

var InstitutionTypes = []Option{
	{Value: string(TypeInstitution), Label: "Institution"},
	{Value: string(TypeSchool), Label: "School"},
	{Value: string(TypeCollege), Label: "College"},
}

// Boards lists the examination boards a certificate may be issued under.
var Boards = []string{
	"CBSE (Central Board of Secondary Education)",
	"ICSE (Indian Certificate of Secondary Education)",
	"IB (International Baccalaureate)",
	"IGCSE (International General Certificate of Secondary Education)",
	"NIOS (National Institute of Open Schooling)",
	"Andhra Pradesh Board of Secondary Education",
	"Assam Board of Secondary Education",
	"Bihar School Examination Board",
	"Chhattisgarh Board of Secondary Education",
	"Goa Board of Secondary and Higher Secondary Education",
	"Gujarat Secondary and Higher Secondary Education Board",
	"Haryana Board of School Education",
	"Himachal Pradesh Board of School Education",
	"Jammu and Kashmir State Board of School Education",
	"Jharkhand Academic Council",
	"Karnataka Secondary Education Examination Board",
	"Kerala Board of Public Examinations",
	"Madhya Pradesh Board of Secondary Education",
	"Maharashtra State Board of Secondary and Higher Secondary Education",
	"Manipur Board of Secondary Education",
	"Meghalaya Board of School Education",
	"Mizoram Board of School Education",
	"Nagaland Board of School Education",
	"Odisha Board of Secondary Education",
	"Punjab School Education Board",
	"Rajasthan Board of Secondary Education",
	"Sikkim Board of School Education",
	"Tamil Nadu Board of Secondary Education",
	"Telangana Board of Intermediate Education",
	"Tripura Board of Secondary Education",
	"Uttar Pradesh Board of High School and Intermediate Education",
	"Uttarakhand Board of School Education",
	"West Bengal Board of Secondary Education",
}

var AcademicYears = []string{
	"2023-2024",
	"2024-2025",
	"2025-2026",
	"2026-2027",
}

// Options is the full set of choices offered by the lookup form.
type Options struct {
	InstitutionTypes []Option `json:"institution_types"`
	Boards           []string `json:"boards"`
	AcademicYears    []string `json:"academic_years"`
}

func AllOptions() Options {
	return Options{
		InstitutionTypes: append([]Option(nil), InstitutionTypes...),
		Boards:           append([]string(nil), Boards...),
		AcademicYears:    append([]string(nil), AcademicYears...),
	}
}

func contains(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}

func validType(v string) bool {
	for _, o := range InstitutionTypes {
		if o.Value == v {
			return true
		}
	}
	return false
}
