package auth

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type UserRepository struct {
	DB *pgxpool.Pool
}

func NewUserRepository(db *pgxpool.Pool) *UserRepository {
	return &UserRepository{DB: db}
}

const userColumns = `id, email, password_hash, tipo_perfil, is_admin, activo, fecha_registro, ultima_conexion`

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*User, error) {
	row := r.DB.QueryRow(ctx, `
		SELECT `+userColumns+`
		FROM usuarios
		WHERE email=$1
	`, email)
	user, err := scanUser(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	return user, err
}

func (r *UserRepository) FindByID(ctx context.Context, id string) (*User, error) {
	row := r.DB.QueryRow(ctx, `
		SELECT `+userColumns+`
		FROM usuarios
		WHERE id=$1
	`, id)
	user, err := scanUser(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	return user, err
}

// CreateWithProfile inserts the user row and its role-specific profile row in
// one transaction: either both commit or neither does. Unique violations on
// the email or a profile document column come back as a field-level
// DuplicateError after rollback.
func (r *UserRepository) CreateWithProfile(ctx context.Context, email, passwordHash string, profile ProfileDetail) (*User, error) {
	role := profile.ProfileRole()
	if role == RoleAdmin {
		return nil, fmt.Errorf("admin accounts are created via CreateAdmin")
	}

	tx, err := r.DB.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin registration transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	userID := uuid.NewString()
	row := tx.QueryRow(ctx, `
		INSERT INTO usuarios (id, email, password_hash, tipo_perfil, is_admin, activo)
		VALUES ($1, $2, $3, $4, FALSE, TRUE)
		RETURNING `+userColumns+`
	`, userID, email, passwordHash, string(role))

	user, err := scanUser(row)
	if err != nil {
		return nil, translateUniqueViolation(err)
	}

	if err := insertProfile(ctx, tx, userID, profile); err != nil {
		return nil, translateUniqueViolation(err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit registration: %w", err)
	}
	return user, nil
}

// CreateAdmin is idempotent: when the email is already registered it reports
// created=false and leaves the existing row untouched.
func (r *UserRepository) CreateAdmin(ctx context.Context, email, passwordHash string) (*User, bool, error) {
	existing, err := r.FindByEmail(ctx, email)
	if err != nil {
		return nil, false, err
	}
	if existing != nil {
		return existing, false, nil
	}

	row := r.DB.QueryRow(ctx, `
		INSERT INTO usuarios (id, email, password_hash, tipo_perfil, is_admin, activo)
		VALUES ($1, $2, $3, $4, TRUE, TRUE)
		RETURNING `+userColumns+`
	`, uuid.NewString(), email, passwordHash, string(RoleAdmin))

	user, err := scanUser(row)
	if err != nil {
		return nil, false, translateUniqueViolation(err)
	}
	return user, true, nil
}

func (r *UserRepository) UpdatePassword(ctx context.Context, userID, passwordHash string) error {
	_, err := r.DB.Exec(ctx, `
		UPDATE usuarios SET password_hash=$1 WHERE id=$2
	`, passwordHash, userID)
	return err
}

func (r *UserRepository) TouchLastLogin(ctx context.Context, userID string) error {
	_, err := r.DB.Exec(ctx, `
		UPDATE usuarios SET ultima_conexion=NOW() WHERE id=$1
	`, userID)
	return err
}

// DeleteByEmail removes the user; the profile row goes with it through the
// ON DELETE CASCADE foreign keys.
func (r *UserRepository) DeleteByEmail(ctx context.Context, email string) (bool, error) {
	tag, err := r.DB.Exec(ctx, `DELETE FROM usuarios WHERE email=$1`, email)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

// LoadProfile fetches the role-specific payload for the user. Admins have no
// stored profile and get the display sentinel.
func (r *UserRepository) LoadProfile(ctx context.Context, user *User) (ProfileDetail, error) {
	switch user.Role {
	case RoleEntrepreneur:
		p, err := r.loadEntrepreneur(ctx, user.ID)
		if err != nil || p == nil {
			return nil, err
		}
		return p, nil
	case RoleBusinessOwner:
		p, err := r.loadBusinessOwner(ctx, user.ID)
		if err != nil || p == nil {
			return nil, err
		}
		return p, nil
	case RoleInvestor:
		p, err := r.loadInvestor(ctx, user.ID)
		if err != nil || p == nil {
			return nil, err
		}
		return p, nil
	case RoleInstitution:
		p, err := r.loadInstitution(ctx, user.ID)
		if err != nil || p == nil {
			return nil, err
		}
		return p, nil
	case RoleAdmin:
		return AdminProfile{Name: "Administrador"}, nil
	}
	return nil, fmt.Errorf("user %s has unknown role %q", user.ID, user.Role)
}

func insertProfile(ctx context.Context, tx pgx.Tx, userID string, profile ProfileDetail) error {
	switch p := profile.(type) {
	case *EntrepreneurProfile:
		_, err := tx.Exec(ctx, `
			INSERT INTO emprendedores
			(id, usuario_id, nombre_completo, tipo_documento, numero_documento, numero_celular,
			 programa_formacion, titulo_proyecto, descripcion_proyecto, relacion_sector, tipo_apoyo)
			VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)
		`, uuid.NewString(), userID, p.FullName, p.DocumentType, p.DocumentNumber, p.Phone,
			p.TrainingProgram, p.ProjectTitle, p.ProjectDescription, p.SectorRelation, p.SupportType)
		return err
	case *BusinessOwnerProfile:
		_, err := tx.Exec(ctx, `
			INSERT INTO empresarios
			(id, usuario_id, nombre_completo, tipo_documento_personal, numero_documento_personal,
			 numero_celular, nombre_empresa, tipo_contribuyente, numero_documento_contribuyente,
			 nit, tamano, sector_produccion, sector_transformacion, sector_comercializacion)
			VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14)
		`, uuid.NewString(), userID, p.FullName, p.PersonalDocumentType, p.PersonalDocumentNumber,
			p.Phone, p.CompanyName, p.TaxpayerType, p.TaxpayerDocument,
			p.NIT, p.CompanySize, p.SectorProduction, p.SectorTransformation, p.SectorCommercial)
		return err
	case *InvestorProfile:
		_, err := tx.Exec(ctx, `
			INSERT INTO inversionistas
			(id, usuario_id, nombre_completo, tipo_documento, numero_documento, numero_celular,
			 nombre_fondo, tipo_inversion, etapas_interes, areas_interes)
			VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
		`, uuid.NewString(), userID, p.FullName, p.DocumentType, p.DocumentNumber, p.Phone,
			p.FundName, p.InvestmentType, joinList(p.StagesOfInterest), joinList(p.AreasOfInterest))
		return err
	case *InstitutionProfile:
		_, err := tx.Exec(ctx, `
			INSERT INTO instituciones
			(id, usuario_id, nombre_completo, nit, tipo_institucion, municipio,
			 descripcion, area_especializacion, participacion_activa)
			VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
		`, uuid.NewString(), userID, p.FullName, p.NIT, p.InstitutionType, p.Municipality,
			p.Description, p.SpecializationArea, joinList(p.ActiveParticipation))
		return err
	}
	return fmt.Errorf("unsupported profile type %T", profile)
}

func (r *UserRepository) loadEntrepreneur(ctx context.Context, userID string) (*EntrepreneurProfile, error) {
	var p EntrepreneurProfile
	err := r.DB.QueryRow(ctx, `
		SELECT id, usuario_id, nombre_completo, tipo_documento, numero_documento, numero_celular,
		       programa_formacion, titulo_proyecto, descripcion_proyecto, relacion_sector, tipo_apoyo
		FROM emprendedores
		WHERE usuario_id=$1
	`, userID).Scan(&p.ID, &p.UserID, &p.FullName, &p.DocumentType, &p.DocumentNumber, &p.Phone,
		&p.TrainingProgram, &p.ProjectTitle, &p.ProjectDescription, &p.SectorRelation, &p.SupportType)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *UserRepository) loadBusinessOwner(ctx context.Context, userID string) (*BusinessOwnerProfile, error) {
	var (
		p           BusinessOwnerProfile
		taxpayerDoc sql.NullString
		nit         sql.NullString
	)
	err := r.DB.QueryRow(ctx, `
		SELECT id, usuario_id, nombre_completo, tipo_documento_personal, numero_documento_personal,
		       numero_celular, nombre_empresa, tipo_contribuyente, numero_documento_contribuyente,
		       nit, tamano, sector_produccion, sector_transformacion, sector_comercializacion
		FROM empresarios
		WHERE usuario_id=$1
	`, userID).Scan(&p.ID, &p.UserID, &p.FullName, &p.PersonalDocumentType, &p.PersonalDocumentNumber,
		&p.Phone, &p.CompanyName, &p.TaxpayerType, &taxpayerDoc,
		&nit, &p.CompanySize, &p.SectorProduction, &p.SectorTransformation, &p.SectorCommercial)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	p.TaxpayerDocument = nullStringPtr(taxpayerDoc)
	p.NIT = nullStringPtr(nit)
	return &p, nil
}

func (r *UserRepository) loadInvestor(ctx context.Context, userID string) (*InvestorProfile, error) {
	var (
		p        InvestorProfile
		fundName sql.NullString
		stages   sql.NullString
		areas    sql.NullString
	)
	err := r.DB.QueryRow(ctx, `
		SELECT id, usuario_id, nombre_completo, tipo_documento, numero_documento, numero_celular,
		       nombre_fondo, tipo_inversion, etapas_interes, areas_interes
		FROM inversionistas
		WHERE usuario_id=$1
	`, userID).Scan(&p.ID, &p.UserID, &p.FullName, &p.DocumentType, &p.DocumentNumber, &p.Phone,
		&fundName, &p.InvestmentType, &stages, &areas)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	p.FundName = nullStringPtr(fundName)
	p.StagesOfInterest = splitList(stages.String)
	p.AreasOfInterest = splitList(areas.String)
	return &p, nil
}

func (r *UserRepository) loadInstitution(ctx context.Context, userID string) (*InstitutionProfile, error) {
	var (
		p             InstitutionProfile
		participation sql.NullString
	)
	err := r.DB.QueryRow(ctx, `
		SELECT id, usuario_id, nombre_completo, nit, tipo_institucion, municipio,
		       descripcion, area_especializacion, participacion_activa
		FROM instituciones
		WHERE usuario_id=$1
	`, userID).Scan(&p.ID, &p.UserID, &p.FullName, &p.NIT, &p.InstitutionType, &p.Municipality,
		&p.Description, &p.SpecializationArea, &participation)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	p.ActiveParticipation = splitList(participation.String)
	return &p, nil
}

// duplicateFields maps unique-constraint names to the wire field a caller
// can correct.
var duplicateFields = map[string]string{
	"usuarios_email_key":                             "email",
	"emprendedores_numero_documento_key":             "numero_documento",
	"empresarios_numero_documento_personal_key":      "numero_documento_personal",
	"empresarios_numero_documento_contribuyente_key": "numero_documento_contribuyente",
	"empresarios_nit_key":                            "nit",
	"inversionistas_numero_documento_key":            "numero_documento",
	"instituciones_nit_key":                          "nit",
}

func translateUniqueViolation(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
		if field, ok := duplicateFields[pgErr.ConstraintName]; ok {
			return &DuplicateError{Field: field}
		}
		return &DuplicateError{Field: "unknown"}
	}
	return err
}

func scanUser(row pgx.Row) (*User, error) {
	var (
		user      User
		role      string
		lastLogin sql.NullTime
	)
	if err := row.Scan(
		&user.ID,
		&user.Email,
		&user.PasswordHash,
		&role,
		&user.IsAdmin,
		&user.Active,
		&user.RegisteredAt,
		&lastLogin,
	); err != nil {
		return nil, err
	}
	user.Role = Role(role)
	user.LastLoginAt = nullTimePtr(lastLogin)
	return &user, nil
}

func nullStringPtr(ns sql.NullString) *string {
	if ns.Valid {
		return &ns.String
	}
	return nil
}

func nullTimePtr(nt sql.NullTime) *time.Time {
	if nt.Valid {
		return &nt.Time
	}
	return nil
}

func joinList(vals []string) string {
	return strings.Join(vals, ",")
}

func splitList(val string) []string {
	if val == "" {
		return nil
	}
	parts := strings.Split(val, ",")
	var out []string
	for _, p := range parts {
		if t := strings.TrimSpace(p); t != "" {
			out = append(out, t)
		}
	}
	return out
}
