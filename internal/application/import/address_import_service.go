package importapp

import (
	"context"
	"errors"
	"fmt"
	"io"

	"go.uber.org/zap"

	"github.com/addrsync/backend/internal/domain/address"
	"github.com/addrsync/backend/internal/domain/identity"
	csvimport "github.com/addrsync/backend/internal/infrastructure/import"
)

// Options controls a single import run.
type Options struct {
	// Delimiter is the CSV field delimiter; 0 means comma.
	Delimiter rune
	// SkipOnError records row failures and continues instead of aborting.
	SkipOnError bool
	// DryRun validates and resolves every row but never writes.
	DryRun bool
	// DeleteMode removes matching addresses instead of adding them.
	DeleteMode bool
	// MaxErrors caps the errors kept in the result; 0 uses the default cap.
	MaxErrors int
}

// Result summarizes an import run. Successful deletions count toward
// ImportedCount, mirroring the single success counter of the batch.
// TotalErrors keeps counting past the error cap.
type Result struct {
	ImportedCount int      `json:"imported_count"`
	SkippedCount  int      `json:"skipped_count"`
	TotalErrors   int      `json:"total_errors"`
	SkipLogs      []string `json:"skip_logs,omitempty"`
	Errors        []string `json:"errors,omitempty"`
}

type rowOutcome int

const (
	outcomeApplied rowOutcome = iota
	outcomeSkipped
)

// AddressImportService runs CSV address imports against the user directory
// and address repository.
type AddressImportService struct {
	users     identity.UserDirectory
	addresses address.Repository
	logger    *zap.Logger
}

// NewAddressImportService creates the import service.
func NewAddressImportService(users identity.UserDirectory, addresses address.Repository, logger *zap.Logger) *AddressImportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AddressImportService{
		users:     users,
		addresses: addresses,
		logger:    logger,
	}
}

// Run processes the CSV from r row by row. Header problems (unreadable
// header, no user identifier column) fail the whole batch before any row is
// processed. Row failures are recorded in Result.Errors; with
// Options.SkipOnError unset the first one aborts the batch, leaving earlier
// rows applied.
func (s *AddressImportService) Run(ctx context.Context, r io.Reader, opts Options) (*Result, error) {
	parserOpts := []csvimport.ParserOption{}
	if opts.Delimiter != 0 {
		parserOpts = append(parserOpts, csvimport.WithDelimiter(opts.Delimiter))
	}
	parser, err := csvimport.NewCSVParser(r, parserOpts...)
	if err != nil {
		return nil, err
	}
	if err := parser.ParseHeader(); err != nil {
		return nil, err
	}
	if !csvimport.HasIdentifierColumn(parser.Headers()) {
		return nil, csvimport.ErrMissingIdentifierColumn
	}

	result := &Result{}
	collected := csvimport.NewErrorCollection(opts.MaxErrors)
	finalize := func() {
		result.TotalErrors = collected.TotalCount()
		for _, rowErr := range collected.Errors() {
			result.Errors = append(result.Errors, rowErr.Error())
		}
	}

	for {
		select {
		case <-ctx.Done():
			finalize()
			return result, ctx.Err()
		default:
		}

		row, err := parser.ReadRow()
		if err == io.EOF {
			break
		}
		if err != nil {
			rowErr := csvimport.NewRowError(parser.CurrentRow(), "", csvimport.ErrCodeImportCSVParsing, err.Error())
			collected.Add(rowErr)
			if !opts.SkipOnError {
				finalize()
				return result, rowErr
			}
			continue
		}
		if row.IsEmpty() {
			continue
		}

		rec := csvimport.MapRecord(row)

		outcome, err := s.processRecord(ctx, rec, row.LineNumber, opts, result)
		if err != nil {
			collected.Add(asRowError(err, row.LineNumber))
			if !opts.SkipOnError {
				finalize()
				return result, err
			}
			continue
		}
		switch outcome {
		case outcomeApplied:
			result.ImportedCount++
		case outcomeSkipped:
			result.SkippedCount++
		}
	}
	finalize()

	s.logger.Info("address import finished",
		zap.Int("imported", result.ImportedCount),
		zap.Int("skipped", result.SkippedCount),
		zap.Int("errors", result.TotalErrors),
		zap.Bool("dry_run", opts.DryRun),
		zap.Bool("delete_mode", opts.DeleteMode))

	return result, nil
}

// asRowError keeps row-scoped errors intact and wraps everything else so the
// result always reports a line number.
func asRowError(err error, line int) csvimport.RowError {
	var rowErr csvimport.RowError
	if errors.As(err, &rowErr) {
		return rowErr
	}
	return csvimport.NewRowError(line, "", csvimport.ErrCodeImportValidation, err.Error())
}

func (s *AddressImportService) processRecord(ctx context.Context, rec csvimport.Record, line int, opts Options, result *Result) (rowOutcome, error) {
	addrType, err := s.validateRecord(rec, line)
	if err != nil {
		return outcomeSkipped, err
	}

	switch {
	case opts.DeleteMode && opts.DryRun:
		return s.previewDelete(ctx, rec, addrType, line, result)
	case opts.DeleteMode:
		return s.deleteRecord(ctx, rec, addrType, line, result)
	case opts.DryRun:
		return s.previewImport(ctx, rec, addrType, line, result)
	default:
		return s.importRecord(ctx, rec, addrType, line, result)
	}
}

// validateRecord checks the reconciled row and normalizes it in place:
// the type defaults to shipping and Japanese prefecture names become codes.
func (s *AddressImportService) validateRecord(rec csvimport.Record, line int) (address.Type, error) {
	if rec.Get(csvimport.FieldUserEmail) == "" &&
		rec.Get(csvimport.FieldUserID) == "" &&
		rec.Get(csvimport.FieldUserLogin) == "" {
		return "", csvimport.NewRowError(line, "", csvimport.ErrCodeImportMissingIdentifier,
			"no user identifier specified")
	}

	if rec.Get(csvimport.FieldType) == "" {
		rec[csvimport.FieldType] = string(address.TypeShipping)
	}
	addrType := address.Type(rec.Get(csvimport.FieldType))
	if !addrType.Valid() {
		return "", csvimport.NewRowErrorWithValue(line, csvimport.FieldType, csvimport.ErrCodeImportInvalidType,
			fmt.Sprintf("invalid address type: %s", addrType), string(addrType))
	}

	if state := rec.Get(csvimport.FieldState); state != "" {
		rec[csvimport.FieldState] = address.NormalizeState(state, rec.Get(csvimport.FieldCountry))
	}

	if addrType == address.TypeShipping {
		// Names may stay empty for shipping addresses.
		if rec.Get(csvimport.FieldCompany) == "" {
			return "", csvimport.NewRowError(line, csvimport.FieldCompany, csvimport.ErrCodeImportRequiredField,
				"company is required for shipping addresses")
		}
	} else {
		for _, field := range []string{csvimport.FieldFirstName, csvimport.FieldLastName} {
			if rec.Get(field) == "" {
				return "", csvimport.NewRowError(line, field, csvimport.ErrCodeImportRequiredField,
					fmt.Sprintf("required field is empty: %s", field))
			}
		}
	}

	for _, field := range []string{csvimport.FieldAddress1, csvimport.FieldCity, csvimport.FieldCountry} {
		if rec.Get(field) == "" {
			return "", csvimport.NewRowError(line, field, csvimport.ErrCodeImportRequiredField,
				fmt.Sprintf("required field is empty: %s", field))
		}
	}

	return addrType, nil
}

func (s *AddressImportService) resolveUser(ctx context.Context, rec csvimport.Record, line int) (*identity.User, error) {
	criteria := identity.LookupCriteria{
		ID:    rec.Get(csvimport.FieldUserID),
		Email: rec.Get(csvimport.FieldUserEmail),
		Login: rec.Get(csvimport.FieldUserLogin),
	}
	user, err := s.users.FindUser(ctx, criteria)
	if err != nil {
		if errors.Is(err, identity.ErrUserNotFound) {
			return nil, csvimport.NewRowErrorWithValue(line, "", csvimport.ErrCodeImportUserNotFound,
				fmt.Sprintf("user not found: %s", criteria.Identifier()), criteria.Identifier())
		}
		return nil, fmt.Errorf("line %d: user lookup failed: %w", line, err)
	}
	return user, nil
}

func (s *AddressImportService) importRecord(ctx context.Context, rec csvimport.Record, addrType address.Type, line int, result *Result) (rowOutcome, error) {
	user, err := s.resolveUser(ctx, rec, line)
	if err != nil {
		return outcomeSkipped, err
	}

	existing, err := s.addresses.ReadAddresses(ctx, user.ID.String())
	if err != nil {
		return outcomeSkipped, fmt.Errorf("line %d: reading addresses: %w", line, err)
	}

	if company := rec.Get(csvimport.FieldCompany); company != "" {
		if address.HasDuplicateCompany(existing, addrType, company) {
			result.SkipLogs = append(result.SkipLogs, fmt.Sprintf(
				"line %d: skipped - %s address with company '%s' already exists for user %s",
				line, addrType, company, user.Email))
			return outcomeSkipped, nil
		}
	}

	entry := buildEntry(rec, existing, addrType)
	existing = append(existing, entry)

	if err := s.addresses.WriteAddresses(ctx, user.ID.String(), existing); err != nil {
		return outcomeSkipped, fmt.Errorf("line %d: writing addresses: %w", line, err)
	}

	s.logger.Debug("address imported",
		zap.String("user", user.Email),
		zap.String("type", string(addrType)),
		zap.Int("address_id", entry.ID))

	return outcomeApplied, nil
}

// buildEntry assembles a new address entry from a validated record and the
// user's existing collection.
func buildEntry(rec csvimport.Record, existing []address.Entry, addrType address.Type) address.Entry {
	entry := address.Entry{
		ID:   address.NextID(existing),
		Type: addrType,
	}

	if name, ok := rec[csvimport.FieldAddressName]; ok {
		entry.InternalName = name
	} else if addrType == address.TypeShipping && rec.Get(csvimport.FieldCompany) != "" {
		entry.InternalName = rec.Get(csvimport.FieldCompany)
	} else {
		entry.InternalName = fmt.Sprintf("%s %s - %s",
			rec.Get(csvimport.FieldFirstName), rec.Get(csvimport.FieldLastName), rec.Get(csvimport.FieldAddress1))
	}

	if addrType == address.TypeShipping {
		if siteID := rec.Get(csvimport.FieldAddressID); siteID != "" {
			entry.Set(address.SiteIDKey, siteID)
		} else if company := rec.Get(csvimport.FieldCompany); company != "" {
			entry.Set(address.SiteIDKey, company)
		}
	}

	for _, field := range csvimport.StandardFields {
		if value := rec.Get(field); value != "" {
			entry.Set(string(addrType)+"_"+field, value)
		}
	}

	if addrType == address.TypeBilling {
		if vat := rec.Get(csvimport.FieldVATNumber); vat != "" {
			entry.Set("billing_vat_number", vat)
		}
	}

	if csvimport.IsTruthy(rec.Get(csvimport.FieldIsDefault)) {
		address.ClearDefaultFlag(existing, addrType)
		entry.Set(address.DefaultFlagKey(addrType), "1")
	}

	// Unrecognized columns carry through as custom fields, empty values
	// included. The site identifier column is among them.
	for key, value := range rec {
		if csvimport.IsCustomField(key) {
			entry.Set(string(addrType)+"_"+key, value)
		}
	}

	return entry
}

func (s *AddressImportService) deleteRecord(ctx context.Context, rec csvimport.Record, addrType address.Type, line int, result *Result) (rowOutcome, error) {
	user, err := s.resolveUser(ctx, rec, line)
	if err != nil {
		return outcomeSkipped, err
	}

	existing, err := s.addresses.ReadAddresses(ctx, user.ID.String())
	if err != nil {
		return outcomeSkipped, fmt.Errorf("line %d: reading addresses: %w", line, err)
	}

	deleteID := rec.Get(csvimport.FieldAddressID)
	if deleteID == "" {
		deleteID = rec.Get(csvimport.FieldCompany)
	}

	kept, removed := address.RemoveMatching(existing, addrType, deleteID)
	if len(removed) == 0 {
		result.SkipLogs = append(result.SkipLogs, fmt.Sprintf(
			"line %d: skipped - no %s address with id '%s' for user %s",
			line, addrType, deleteID, user.Email))
		return outcomeSkipped, nil
	}

	for range removed {
		result.SkipLogs = append(result.SkipLogs, fmt.Sprintf(
			"line %d: deleted - %s address with id '%s' for user %s",
			line, addrType, deleteID, user.Email))
	}

	if err := s.addresses.WriteAddresses(ctx, user.ID.String(), kept); err != nil {
		return outcomeSkipped, fmt.Errorf("line %d: writing addresses: %w", line, err)
	}

	s.logger.Debug("addresses deleted",
		zap.String("user", user.Email),
		zap.String("type", string(addrType)),
		zap.Int("removed", len(removed)))

	return outcomeApplied, nil
}

func (s *AddressImportService) previewImport(ctx context.Context, rec csvimport.Record, addrType address.Type, line int, result *Result) (rowOutcome, error) {
	user, err := s.resolveUser(ctx, rec, line)
	if err != nil {
		return outcomeSkipped, err
	}

	existing, err := s.addresses.ReadAddresses(ctx, user.ID.String())
	if err != nil {
		return outcomeSkipped, fmt.Errorf("line %d: reading addresses: %w", line, err)
	}

	if company := rec.Get(csvimport.FieldCompany); company != "" {
		if address.HasDuplicateCompany(existing, addrType, company) {
			result.SkipLogs = append(result.SkipLogs, fmt.Sprintf(
				"line %d: dry-run - would skip, %s address with company '%s' already exists for user %s",
				line, addrType, company, user.Email))
			return outcomeSkipped, nil
		}
	}

	name := rec.Get(csvimport.FieldCompany)
	if name == "" {
		name = fmt.Sprintf("%s %s", rec.Get(csvimport.FieldFirstName), rec.Get(csvimport.FieldLastName))
	}
	result.SkipLogs = append(result.SkipLogs, fmt.Sprintf(
		"line %d: dry-run - would import %s address '%s' for user %s",
		line, addrType, name, user.Email))

	return outcomeApplied, nil
}

func (s *AddressImportService) previewDelete(ctx context.Context, rec csvimport.Record, addrType address.Type, line int, result *Result) (rowOutcome, error) {
	user, err := s.resolveUser(ctx, rec, line)
	if err != nil {
		return outcomeSkipped, err
	}

	existing, err := s.addresses.ReadAddresses(ctx, user.ID.String())
	if err != nil {
		return outcomeSkipped, fmt.Errorf("line %d: reading addresses: %w", line, err)
	}

	deleteID := rec.Get(csvimport.FieldAddressID)
	if deleteID == "" {
		deleteID = rec.Get(csvimport.FieldCompany)
	}

	if match := address.FindMatch(existing, addrType, deleteID); match != nil {
		result.SkipLogs = append(result.SkipLogs, fmt.Sprintf(
			"line %d: dry-run - would delete %s address with id '%s' for user %s",
			line, addrType, deleteID, user.Email))
		return outcomeApplied, nil
	}

	result.SkipLogs = append(result.SkipLogs, fmt.Sprintf(
		"line %d: dry-run - skipped, no %s address with id '%s' for user %s",
		line, addrType, deleteID, user.Email))
	return outcomeSkipped, nil
}
