package server

import (
	"log"
	"net/http"

	"mineconect/internal/auth"
)

type registerEntrepreneurRequest struct {
	Email              string `json:"email"`
	Password           string `json:"password"`
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

func (s *Server) handleRegisterEntrepreneur(w http.ResponseWriter, r *http.Request) {
	var req registerEntrepreneurRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	missing := requireFields(map[string]string{
		"nombre_completo":      req.FullName,
		"tipo_documento":       req.DocumentType,
		"numero_documento":     req.DocumentNumber,
		"numero_celular":       req.Phone,
		"programa_formacion":   req.TrainingProgram,
		"titulo_proyecto":      req.ProjectTitle,
		"descripcion_proyecto": req.ProjectDescription,
		"relacion_sector":      req.SectorRelation,
		"tipo_apoyo":           req.SupportType,
	}, []string{
		"nombre_completo", "tipo_documento", "numero_documento", "numero_celular",
		"programa_formacion", "titulo_proyecto", "descripcion_proyecto",
		"relacion_sector", "tipo_apoyo",
	})
	if missing != "" {
		writeFieldError(w, http.StatusBadRequest, "Missing required field", missing)
		return
	}

	s.register(w, r, req.Email, req.Password, &auth.EntrepreneurProfile{
		FullName:           req.FullName,
		DocumentType:       req.DocumentType,
		DocumentNumber:     req.DocumentNumber,
		Phone:              req.Phone,
		TrainingProgram:    req.TrainingProgram,
		ProjectTitle:       req.ProjectTitle,
		ProjectDescription: req.ProjectDescription,
		SectorRelation:     req.SectorRelation,
		SupportType:        req.SupportType,
	})
}

type registerBusinessOwnerRequest struct {
	Email                  string  `json:"email"`
	Password               string  `json:"password"`
	FullName               string  `json:"nombre_completo"`
	PersonalDocumentType   string  `json:"tipo_documento_personal"`
	PersonalDocumentNumber string  `json:"numero_documento_personal"`
	Phone                  string  `json:"numero_celular"`
	CompanyName            string  `json:"nombre_empresa"`
	TaxpayerType           string  `json:"tipo_contribuyente"`
	TaxpayerDocument       *string `json:"numero_documento_contribuyente"`
	NIT                    *string `json:"nit"`
	CompanySize            string  `json:"tamano"`
	SectorProduction       string  `json:"sector_produccion"`
	SectorTransformation   string  `json:"sector_transformacion"`
	SectorCommercial       string  `json:"sector_comercializacion"`
}

func (s *Server) handleRegisterBusinessOwner(w http.ResponseWriter, r *http.Request) {
	var req registerBusinessOwnerRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	missing := requireFields(map[string]string{
		"nombre_completo":           req.FullName,
		"tipo_documento_personal":   req.PersonalDocumentType,
		"numero_documento_personal": req.PersonalDocumentNumber,
		"numero_celular":            req.Phone,
		"nombre_empresa":            req.CompanyName,
		"tipo_contribuyente":        req.TaxpayerType,
		"tamano":                    req.CompanySize,
		"sector_produccion":         req.SectorProduction,
		"sector_transformacion":     req.SectorTransformation,
		"sector_comercializacion":   req.SectorCommercial,
	}, []string{
		"nombre_completo", "tipo_documento_personal", "numero_documento_personal",
		"numero_celular", "nombre_empresa", "tipo_contribuyente", "tamano",
		"sector_produccion", "sector_transformacion", "sector_comercializacion",
	})
	if missing != "" {
		writeFieldError(w, http.StatusBadRequest, "Missing required field", missing)
		return
	}

	s.register(w, r, req.Email, req.Password, &auth.BusinessOwnerProfile{
		FullName:               req.FullName,
		PersonalDocumentType:   req.PersonalDocumentType,
		PersonalDocumentNumber: req.PersonalDocumentNumber,
		Phone:                  req.Phone,
		CompanyName:            req.CompanyName,
		TaxpayerType:           req.TaxpayerType,
		TaxpayerDocument:       req.TaxpayerDocument,
		NIT:                    req.NIT,
		CompanySize:            req.CompanySize,
		SectorProduction:       req.SectorProduction,
		SectorTransformation:   req.SectorTransformation,
		SectorCommercial:       req.SectorCommercial,
	})
}

type registerInvestorRequest struct {
	Email            string   `json:"email"`
	Password         string   `json:"password"`
	FullName         string   `json:"nombre_completo"`
	DocumentType     string   `json:"tipo_documento"`
	DocumentNumber   string   `json:"numero_documento"`
	Phone            string   `json:"numero_celular"`
	FundName         *string  `json:"nombre_fondo"`
	InvestmentType   string   `json:"tipo_inversion"`
	StagesOfInterest []string `json:"etapas_interes"`
	AreasOfInterest  []string `json:"areas_interes"`
}

func (s *Server) handleRegisterInvestor(w http.ResponseWriter, r *http.Request) {
	var req registerInvestorRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	missing := requireFields(map[string]string{
		"nombre_completo":  req.FullName,
		"tipo_documento":   req.DocumentType,
		"numero_documento": req.DocumentNumber,
		"numero_celular":   req.Phone,
		"tipo_inversion":   req.InvestmentType,
	}, []string{
		"nombre_completo", "tipo_documento", "numero_documento",
		"numero_celular", "tipo_inversion",
	})
	if missing != "" {
		writeFieldError(w, http.StatusBadRequest, "Missing required field", missing)
		return
	}

	s.register(w, r, req.Email, req.Password, &auth.InvestorProfile{
		FullName:         req.FullName,
		DocumentType:     req.DocumentType,
		DocumentNumber:   req.DocumentNumber,
		Phone:            req.Phone,
		FundName:         req.FundName,
		InvestmentType:   req.InvestmentType,
		StagesOfInterest: req.StagesOfInterest,
		AreasOfInterest:  req.AreasOfInterest,
	})
}

type registerInstitutionRequest struct {
	Email               string   `json:"email"`
	Password            string   `json:"password"`
	FullName            string   `json:"nombre_completo"`
	NIT                 string   `json:"nit"`
	InstitutionType     string   `json:"tipo_institucion"`
	Municipality        string   `json:"municipio"`
	Description         string   `json:"descripcion"`
	SpecializationArea  string   `json:"area_especializacion"`
	ActiveParticipation []string `json:"participacion_activa"`
}

func (s *Server) handleRegisterInstitution(w http.ResponseWriter, r *http.Request) {
	var req registerInstitutionRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	missing := requireFields(map[string]string{
		"nombre_completo":      req.FullName,
		"nit":                  req.NIT,
		"tipo_institucion":     req.InstitutionType,
		"municipio":            req.Municipality,
		"descripcion":          req.Description,
		"area_especializacion": req.SpecializationArea,
	}, []string{
		"nombre_completo", "nit", "tipo_institucion", "municipio",
		"descripcion", "area_especializacion",
	})
	if missing != "" {
		writeFieldError(w, http.StatusBadRequest, "Missing required field", missing)
		return
	}

	s.register(w, r, req.Email, req.Password, &auth.InstitutionProfile{
		FullName:            req.FullName,
		NIT:                 req.NIT,
		InstitutionType:     req.InstitutionType,
		Municipality:        req.Municipality,
		Description:         req.Description,
		SpecializationArea:  req.SpecializationArea,
		ActiveParticipation: req.ActiveParticipation,
	})
}

// register finishes every role-specific registration the same way: hash the
// password and write the user plus profile in one transaction.
func (s *Server) register(w http.ResponseWriter, r *http.Request, emailAddr, password string, profile auth.ProfileDetail) {
	if !validateEmail(emailAddr) {
		writeFieldError(w, http.StatusBadRequest, "Invalid email format", "email")
		return
	}
	if err := validatePassword(password); err != nil {
		writeFieldError(w, http.StatusBadRequest, err.Error(), "password")
		return
	}

	hashed, err := s.Hasher.Hash(password)
	if err != nil {
		log.Printf("register: hash failed: %v", err)
		writeError(w, http.StatusInternalServerError, "Failed to create user")
		return
	}

	user, err := s.Users.CreateWithProfile(r.Context(), emailAddr, hashed, profile)
	if err != nil {
		if dup, ok := auth.AsDuplicate(err); ok {
			writeFieldError(w, http.StatusConflict, "Value already registered", dup.Field)
			return
		}
		log.Printf("register: create user failed: %v", err)
		writeError(w, http.StatusInternalServerError, "Failed to create user")
		return
	}

	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"message": "Registration successful! You can now sign in.",
		"user": map[string]string{
			"id":    user.ID,
			"email": user.Email,
			"rol":   user.Role.String(),
		},
	})
}
