package mongo

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"golang.org/x/crypto/bcrypt"

	"github.com/printmanage/console/internal/core/domain"
	"github.com/printmanage/console/internal/core/ports"
)

const (
	collectionCompanies     = "companies"
	collectionDepartments   = "departments"
	collectionBrands        = "brands"
	collectionPrinterModels = "printer_models"
	collectionPrinters      = "printers"
	collectionMateriel      = "materiel"
	collectionUsers         = "users"
	collectionMovements     = "printer_movements"
	collectionTokens        = "tokens"
)

type tokenDoc struct {
	Token     string    `bson:"_id"`
	UserID    int64     `bson:"user_id"`
	CreatedAt time.Time `bson:"created_at"`
}

// Factory serves the store ports from MongoDB, for running the console
// without the REST backend.
type Factory struct {
	db  *mongo.Database
	log zerolog.Logger
}

var _ ports.StoreFactory = (*Factory)(nil)

func NewFactory(db *mongo.Database, log zerolog.Logger) *Factory {
	return &Factory{db: db, log: log}
}

// EnsureIndexes creates the unique indexes the store relies on.
func (f *Factory) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	unique := options.Index().SetUnique(true)
	if _, err := f.db.Collection(collectionMateriel).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "reference", Value: 1}}, Options: unique,
	}); err != nil {
		return fmt.Errorf("materiel indexes: %w", err)
	}
	if _, err := f.db.Collection(collectionUsers).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "email", Value: 1}}, Options: unique,
	}); err != nil {
		return fmt.Errorf("user indexes: %w", err)
	}
	_, err := f.db.Collection(collectionMovements).Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "printer_id", Value: 1}}},
		{Keys: bson.D{{Key: "date", Value: -1}}},
	})
	return err
}

// Login checks the password hash and opens a token.
func (f *Factory) Login(ctx context.Context, email, password string) (ports.LoginResult, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var u domain.User
	err := f.db.Collection(collectionUsers).FindOne(ctx, bson.M{"email": strings.ToLower(strings.TrimSpace(email))}).Decode(&u)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return ports.LoginResult{}, domain.ErrInvalidCredentials
	}
	if err != nil {
		return ports.LoginResult{}, fmt.Errorf("find user: %w", err)
	}
	if u.Status == domain.StatusInactive {
		return ports.LoginResult{}, domain.ErrInvalidCredentials
	}
	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) != nil {
		return ports.LoginResult{}, domain.ErrInvalidCredentials
	}

	tok := tokenDoc{Token: ulid.Make().String(), UserID: u.ID, CreatedAt: time.Now().UTC()}
	if _, err := f.db.Collection(collectionTokens).InsertOne(ctx, tok); err != nil {
		return ports.LoginResult{}, fmt.Errorf("insert token: %w", err)
	}
	u.PasswordHash = ""
	return ports.LoginResult{Token: tok.Token, User: u}, nil
}

// For returns the store seen through sess. Every call checks that the
// session token is still known.
func (f *Factory) For(sess ports.Session) ports.RemoteStore {
	s := &Store{db: f.db, sess: sess, log: f.log}
	s.companies = newRepository(f.db, collectionCompanies, func(c *domain.Company, id int64) { c.ID = id }, s.authorize)
	s.departments = newRepository(f.db, collectionDepartments, func(d *domain.Department, id int64) { d.ID = id }, s.authorize)
	s.brands = &brandRepository{newRepository(f.db, collectionBrands, func(b *domain.Brand, id int64) { b.ID = id }, s.authorize)}
	s.models = newRepository(f.db, collectionPrinterModels, func(m *domain.PrinterModel, id int64) { m.ID = id }, s.authorize)
	s.printers = &printerRepository{
		repository: newRepository(f.db, collectionPrinters, func(p *domain.Printer, id int64) { p.ID = id }, s.authorize),
		store:      s,
	}
	s.materiel = newRepository(f.db, collectionMateriel, func(m *domain.Materiel, id int64) { m.ID = id }, s.authorize)
	s.materiel.unique = &uniqueField{Field: "reference", Message: "The reference has already been taken."}
	s.movements = newRepository(f.db, collectionMovements, func(m *domain.PrinterMovement, id int64) { m.ID = id }, s.authorize)
	s.users = &userRepository{newRepository(f.db, collectionUsers, func(u *domain.User, id int64) { u.ID = id }, s.authorize)}
	s.users.unique = &uniqueField{Field: "email", Message: "The email has already been taken."}
	return s
}

// Store is the MongoDB store seen through one session.
type Store struct {
	db   *mongo.Database
	sess ports.Session
	log  zerolog.Logger

	companies   *repository[domain.Company]
	departments *repository[domain.Department]
	brands      *brandRepository
	models      *repository[domain.PrinterModel]
	printers    *printerRepository
	materiel    *repository[domain.Materiel]
	users       *userRepository
	movements   *repository[domain.PrinterMovement]
}

var _ ports.RemoteStore = (*Store)(nil)

func (s *Store) Companies() ports.Collection[domain.Company] { return s.companies }
func (s *Store) Departments() ports.Collection[domain.Department] { return s.departments }
func (s *Store) Brands() ports.PagedCollection[domain.Brand] { return s.brands }
func (s *Store) PrinterModels() ports.Collection[domain.PrinterModel] { return s.models }
func (s *Store) Printers() ports.PrinterStore { return s.printers }
func (s *Store) Materiel() ports.Collection[domain.Materiel] { return s.materiel }
func (s *Store) Users() ports.Collection[domain.User] { return s.users }
func (s *Store) PrinterMovements() ports.MovementLog { return s.movements }
func (s *Store) Analytics() ports.Analytics { return analytics{store: s} }

// authorize resolves the session token to its user.
func (s *Store) authorize(ctx context.Context) error {
	_, err := s.currentUser(ctx)
	return err
}

func (s *Store) currentUser(ctx context.Context) (int64, error) {
	if s.sess == nil || s.sess.Token() == "" {
		return 0, domain.ErrUnauthorized
	}
	var tok tokenDoc
	err := s.db.Collection(collectionTokens).FindOne(ctx, bson.M{"_id": s.sess.Token()}).Decode(&tok)
	if errors.Is(err, mongo.ErrNoDocuments) {
		if cerr := s.sess.ClearToken(ctx); cerr != nil {
			s.log.Warn().Err(cerr).Msg("clear session token")
		}
		return 0, domain.ErrUnauthorized
	}
	if err != nil {
		return 0, fmt.Errorf("resolve token: %w", err)
	}
	return tok.UserID, nil
}

// brandRepository adds server-side search and pagination.
type brandRepository struct {
	*repository[domain.Brand]
}

// brandFilter matches names containing term, case-insensitively.
func brandFilter(term string) bson.M {
	term = strings.TrimSpace(term)
	if term == "" {
		return bson.M{}
	}
	return bson.M{"name": bson.M{"$regex": regexp.QuoteMeta(term), "$options": "i"}}
}

func lastPage(total, perPage int) int {
	if total == 0 || perPage <= 0 {
		return 1
	}
	return (total + perPage - 1) / perPage
}

func (r *brandRepository) ListPage(ctx context.Context, q domain.PageQuery) (domain.PageResult[domain.Brand], error) {
	if err := r.check(ctx); err != nil {
		return domain.PageResult[domain.Brand]{}, err
	}
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	if q.Page < 1 {
		q.Page = 1
	}
	if q.PerPage < 1 {
		q.PerPage = 10
	}
	filter := brandFilter(q.SearchTerm)
	total, err := r.col.CountDocuments(ctx, filter)
	if err != nil {
		return domain.PageResult[domain.Brand]{}, fmt.Errorf("count brands: %w", err)
	}
	opts := options.Find().
		SetSort(bson.D{{Key: "name", Value: 1}}).
		SetSkip(int64((q.Page - 1) * q.PerPage)).
		SetLimit(int64(q.PerPage))
	cur, err := r.col.Find(ctx, filter, opts)
	if err != nil {
		return domain.PageResult[domain.Brand]{}, fmt.Errorf("list brands: %w", err)
	}
	items := []domain.Brand{}
	if err := cur.All(ctx, &items); err != nil {
		return domain.PageResult[domain.Brand]{}, fmt.Errorf("decode brands: %w", err)
	}
	return domain.PageResult[domain.Brand]{
		Data:        items,
		Total:       int(total),
		LastPage:    lastPage(int(total), q.PerPage),
		CurrentPage: q.Page,
	}, nil
}

// printerRepository adds relocation with its audit trail.
type printerRepository struct {
	*repository[domain.Printer]
	store *Store
}

// Move sets the printer department (and the owning company) then appends
// a printer_movements entry.
func (r *printerRepository) Move(ctx context.Context, printerID int64, in ports.MovePrinterInput) (domain.PrinterMovement, error) {
	userID, err := r.store.currentUser(ctx)
	if err != nil {
		return domain.PrinterMovement{}, err
	}
	printer, err := r.Get(ctx, printerID)
	if err != nil {
		return domain.PrinterMovement{}, err
	}
	if printer.DepartmentID != nil && *printer.DepartmentID == in.DepartmentID {
		return domain.PrinterMovement{}, domain.NewValidationError("department_id", domain.ErrSameDepartment.Error())
	}
	dep, err := r.store.departments.Get(ctx, in.DepartmentID)
	if errors.Is(err, domain.ErrNotFound) {
		return domain.PrinterMovement{}, domain.NewValidationError("department_id", "The selected department is invalid.")
	}
	if err != nil {
		return domain.PrinterMovement{}, err
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	id, err := nextID(ctx, r.db, collectionMovements)
	if err != nil {
		return domain.PrinterMovement{}, err
	}
	mv := domain.PrinterMovement{
		ID:              id,
		PrinterID:       printerID,
		OldDepartmentID: printer.DepartmentID,
		NewDepartmentID: dep.ID,
		MovedBy:         userID,
		Date:            time.Now().UTC(),
		Notes:           in.Notes,
	}
	update := bson.M{"$set": bson.M{"department_id": dep.ID, "company_id": dep.CompanyID}}
	apply := func(ctx context.Context) error {
		_, err := r.col.UpdateOne(ctx, bson.M{"_id": printerID}, update)
		return err
	}
	journal := movementJournal{col: r.db.Collection(collectionMovements)}
	if err := relocate(ctx, journal, mv, apply, r.store.log); err != nil {
		return domain.PrinterMovement{}, err
	}
	return mv, nil
}

// movementLog is where relocate records movements.
type movementLog interface {
	append(ctx context.Context, mv domain.PrinterMovement) error
	withdraw(ctx context.Context, id int64) error
}

type movementJournal struct {
	col *mongo.Collection
}

func (j movementJournal) append(ctx context.Context, mv domain.PrinterMovement) error {
	_, err := j.col.InsertOne(ctx, mv)
	return err
}

func (j movementJournal) withdraw(ctx context.Context, id int64) error {
	_, err := j.col.DeleteOne(ctx, bson.M{"_id": id})
	return err
}

// relocate records mv before applying the printer update, so a moved
// printer always has its movement entry. When the update fails the entry
// is withdrawn; if that fails too the orphan entry is logged.
func relocate(ctx context.Context, ml movementLog, mv domain.PrinterMovement, apply func(context.Context) error, log zerolog.Logger) error {
	if err := ml.append(ctx, mv); err != nil {
		return fmt.Errorf("insert movement: %w", err)
	}
	if err := apply(ctx); err != nil {
		if werr := ml.withdraw(ctx, mv.ID); werr != nil {
			log.Error().Err(werr).
				Int64("movement_id", mv.ID).
				Int64("printer_id", mv.PrinterID).
				Msg("movement recorded for a printer that did not move")
		}
		return fmt.Errorf("move printer: %w", err)
	}
	return nil
}

// userRepository hashes passwords and keeps the stored hash on updates
// that carry no new password.
type userRepository struct {
	*repository[domain.User]
}

func (r *userRepository) List(ctx context.Context) ([]domain.User, error) {
	users, err := r.repository.List(ctx)
	for i := range users {
		users[i].PasswordHash = ""
	}
	return users, err
}

func (r *userRepository) Get(ctx context.Context, id int64) (domain.User, error) {
	u, err := r.repository.Get(ctx, id)
	u.PasswordHash = ""
	return u, err
}

func (r *userRepository) Create(ctx context.Context, u domain.User) (domain.User, error) {
	if u.Password == "" {
		return domain.User{}, domain.NewValidationError("password", "The password field is required.")
	}
	if err := hashPassword(&u); err != nil {
		return domain.User{}, err
	}
	u.Email = strings.ToLower(strings.TrimSpace(u.Email))
	out, err := r.repository.Create(ctx, u)
	out.PasswordHash = ""
	return out, err
}

func (r *userRepository) Update(ctx context.Context, id int64, u domain.User) (domain.User, error) {
	if u.Password != "" {
		if err := hashPassword(&u); err != nil {
			return domain.User{}, err
		}
	} else {
		current, err := r.repository.Get(ctx, id)
		if err != nil {
			return domain.User{}, err
		}
		u.PasswordHash = current.PasswordHash
	}
	u.Email = strings.ToLower(strings.TrimSpace(u.Email))
	out, err := r.repository.Update(ctx, id, u)
	out.PasswordHash = ""
	return out, err
}

func hashPassword(u *domain.User) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(u.Password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	u.PasswordHash = string(hash)
	u.Password = ""
	return nil
}

// SeedAdmin creates the first admin account when the users collection is
// empty.
func (f *Factory) SeedAdmin(ctx context.Context, name, email, password string) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	n, err := f.db.Collection(collectionUsers).CountDocuments(ctx, bson.M{})
	if err != nil {
		return fmt.Errorf("count users: %w", err)
	}
	if n > 0 || email == "" || password == "" {
		return nil
	}
	u := domain.User{Name: name, Email: strings.ToLower(email), Role: domain.RoleAdmin, Status: domain.StatusActive, Password: password}
	if err := hashPassword(&u); err != nil {
		return err
	}
	repo := newRepository(f.db, collectionUsers, func(u *domain.User, id int64) { u.ID = id }, nil)
	if _, err := repo.Create(ctx, u); err != nil {
		return err
	}
	f.log.Info().Str("email", u.Email).Msg("seeded admin account")
	return nil
}
