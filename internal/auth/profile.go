package auth

// ProfileDetail is the role-specific payload attached 1:1 to a user.
// Admin accounts have no stored profile; AdminProfile is the display
// sentinel returned for them.
type ProfileDetail interface {
	ProfileRole() Role
	DisplayName() string
}

type EntrepreneurProfile struct {
	ID                 string `json:"-"`
	UserID             string `json:"-"`
	FullName           string `json:"nombre_completo"`
	DocumentType       string `json:"tipo_documento"`
	DocumentNumber     string `json:"numero_documento"`
	Phone              string `json:"numero_celular"`
	TrainingProgram    string `json:"programa_formacion"`
	ProjectTitle       string `json:"titulo_proyecto"`
	ProjectDescription string `json:"descripcion_proyecto"`
	SectorRelation     string `json:"relacion_sector"`
	SupportType        string `json:"tipo_apoyo"`
}

func (p *EntrepreneurProfile) ProfileRole() Role   { return RoleEntrepreneur }
func (p *EntrepreneurProfile) DisplayName() string { return p.FullName }

type BusinessOwnerProfile struct {
	ID                     string  `json:"-"`
	UserID                 string  `json:"-"`
	FullName               string  `json:"nombre_completo"`
	PersonalDocumentType   string  `json:"tipo_documento_personal"`
	PersonalDocumentNumber string  `json:"numero_documento_personal"`
	Phone                  string  `json:"numero_celular"`
	CompanyName            string  `json:"nombre_empresa"`
	TaxpayerType           string  `json:"tipo_contribuyente"`
	TaxpayerDocument       *string `json:"numero_documento_contribuyente,omitempty"`
	NIT                    *string `json:"nit,omitempty"`
	CompanySize            string  `json:"tamano"`
	SectorProduction       string  `json:"sector_produccion"`
	SectorTransformation   string  `json:"sector_transformacion"`
	SectorCommercial       string  `json:"sector_comercializacion"`
}

func (p *BusinessOwnerProfile) ProfileRole() Role   { return RoleBusinessOwner }
func (p *BusinessOwnerProfile) DisplayName() string { return p.FullName }

type InvestorProfile struct {
	ID               string   `json:"-"`
	UserID           string   `json:"-"`
	FullName         string   `json:"nombre_completo"`
	DocumentType     string   `json:"tipo_documento"`
	DocumentNumber   string   `json:"numero_documento"`
	Phone            string   `json:"numero_celular"`
	FundName         *string  `json:"nombre_fondo,omitempty"`
	InvestmentType   string   `json:"tipo_inversion"`
	StagesOfInterest []string `json:"etapas_interes,omitempty"`
	AreasOfInterest  []string `json:"areas_interes,omitempty"`
}

func (p *InvestorProfile) ProfileRole() Role   { return RoleInvestor }
func (p *InvestorProfile) DisplayName() string { return p.FullName }

type InstitutionProfile struct {
	ID                  string   `json:"-"`
	UserID              string   `json:"-"`
	FullName            string   `json:"nombre_completo"`
	NIT                 string   `json:"nit"`
	InstitutionType     string   `json:"tipo_institucion"`
	Municipality        string   `json:"municipio"`
	Description         string   `json:"descripcion"`
	SpecializationArea  string   `json:"area_especializacion"`
	ActiveParticipation []string `json:"participacion_activa,omitempty"`
}

func (p *InstitutionProfile) ProfileRole() Role   { return RoleInstitution }
func (p *InstitutionProfile) DisplayName() string { return p.FullName }

// AdminProfile stands in for admins, which carry no profile row.
type AdminProfile struct {
	Name string `json:"nombre_completo"`
}

func (AdminProfile) ProfileRole() Role { return RoleAdmin }

func (p AdminProfile) DisplayName() string {
	if p.Name != "" {
		return p.Name
	}
	return "Administrador"
}
