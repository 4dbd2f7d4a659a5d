package database

import (
	"database/sql"
	"log"
	"sync"

	"github.com/reckon-ledger/reckon/config"
)

// Declare a package-level variable to hold the singleton instance.
// Ensure the instance is not accessible outside the package.
var instance *Datasource
var once sync.Once

type Datasource struct {
	Conn *sql.DB
}

func NewDataSource(configuration *config.Configuration) (IDataSource, error) {
	con, err := GetDBConnection(configuration)
	if err != nil {
		return nil, err
	}
	return con, nil
}

// GetDBConnection provides a global access point to the instance and initializes it if it's not already.
func GetDBConnection(configuration *config.Configuration) (*Datasource, error) {
	var err error
	once.Do(func() {
		con, errConn := ConnectDB(configuration.DataSource.Dns)
		if errConn != nil {
			err = errConn
			return
		}
		instance = &Datasource{Conn: con}
	})
	if err != nil {
		return nil, err
	}
	return instance, nil
}

func ConnectDB(dns string) (*sql.DB, error) {
	db, err := sql.Open("postgres", dns)
	if err != nil {
		return nil, err
	}
	err = db.Ping()
	if err != nil {
		log.Printf("database connection error: %v", err)
		return nil, err
	}
	err = createAccountTable(db)
	if err != nil {
		return nil, err
	}
	err = createLedgerMovementTable(db)
	if err != nil {
		return nil, err
	}
	err = createJournalEntryTable(db)
	if err != nil {
		return nil, err
	}
	err = createReconciliationTables(db)
	if err != nil {
		return nil, err
	}
	err = createSequenceTable(db)
	if err != nil {
		return nil, err
	}
	err = createCounterpartyTables(db)
	if err != nil {
		return nil, err
	}
	return db, nil
}

// createAccountTable creates a PostgreSQL table mirroring the chart of accounts
func createAccountTable(db *sql.DB) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS accounts (
			id SERIAL PRIMARY KEY,
			account_id TEXT NOT NULL UNIQUE,
			code TEXT NOT NULL UNIQUE,
			name TEXT NOT NULL,
			type TEXT NOT NULL CHECK (type IN ('asset', 'liability', 'equity', 'revenue', 'expense')),
			category TEXT,
			balance NUMERIC NOT NULL DEFAULT 0,
			is_active BOOLEAN NOT NULL DEFAULT TRUE,
			created_at TIMESTAMP NOT NULL DEFAULT NOW()
		)
	`)
	if err != nil {
		log.Printf("Error creating accounts table: %v", err)
	}
	return err
}

// createLedgerMovementTable creates a PostgreSQL table for raw debit/credit movements
func createLedgerMovementTable(db *sql.DB) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS ledger_movements (
			id SERIAL PRIMARY KEY,
			movement_id TEXT NOT NULL UNIQUE,
			account_id TEXT NOT NULL REFERENCES accounts(account_id),
			debit NUMERIC NOT NULL DEFAULT 0,
			credit NUMERIC NOT NULL DEFAULT 0,
			description TEXT,
			date TIMESTAMP NOT NULL
		)
	`)
	if err != nil {
		log.Printf("Error creating ledger_movements table: %v", err)
	}
	return err
}

// createJournalEntryTable creates a PostgreSQL table for adjustment journal entries
func createJournalEntryTable(db *sql.DB) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS journal_entries (
			id SERIAL PRIMARY KEY,
			entry_id TEXT NOT NULL UNIQUE,
			account_id TEXT NOT NULL REFERENCES accounts(account_id),
			amount NUMERIC NOT NULL,
			direction TEXT NOT NULL CHECK (direction IN ('increase', 'decrease')),
			description TEXT,
			date TIMESTAMP NOT NULL,
			created_at TIMESTAMP NOT NULL DEFAULT NOW()
		)
	`)
	if err != nil {
		log.Printf("Error creating journal_entries table: %v", err)
	}
	return err
}

// createReconciliationTables creates the reports, items and adjustments tables
func createReconciliationTables(db *sql.DB) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS reconciliation_reports (
			id SERIAL PRIMARY KEY,
			report_id TEXT NOT NULL UNIQUE,
			report_number TEXT NOT NULL UNIQUE,
			account_id TEXT NOT NULL REFERENCES accounts(account_id),
			period_start TIMESTAMP NOT NULL,
			period_end TIMESTAMP NOT NULL,
			fiscal_year INT NOT NULL,
			book_balance NUMERIC NOT NULL,
			statement_balance NUMERIC NOT NULL,
			reconciled_balance NUMERIC NOT NULL,
			variance NUMERIC NOT NULL,
			status TEXT NOT NULL CHECK (status IN ('draft', 'in_progress', 'completed', 'cancelled')),
			notes TEXT,
			reconciled_by TEXT,
			reconciled_at TIMESTAMP,
			version INT NOT NULL DEFAULT 1,
			created_at TIMESTAMP NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMP NOT NULL DEFAULT NOW()
		)
	`)
	if err != nil {
		log.Printf("Error creating reconciliation_reports table: %v", err)
		return err
	}

	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS reconciliation_items (
			id SERIAL PRIMARY KEY,
			item_id TEXT NOT NULL UNIQUE,
			report_id TEXT NOT NULL REFERENCES reconciliation_reports(report_id),
			description TEXT NOT NULL,
			amount NUMERIC NOT NULL,
			type TEXT NOT NULL CHECK (type IN ('outstanding_check', 'deposit_in_transit', 'bank_fee', 'timing_difference')),
			is_reconciled BOOLEAN NOT NULL DEFAULT FALSE,
			reconciled_date TIMESTAMP,
			notes TEXT,
			created_at TIMESTAMP NOT NULL DEFAULT NOW()
		)
	`)
	if err != nil {
		log.Printf("Error creating reconciliation_items table: %v", err)
		return err
	}

	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS reconciliation_adjustments (
			id SERIAL PRIMARY KEY,
			adjustment_id TEXT NOT NULL UNIQUE,
			report_id TEXT NOT NULL REFERENCES reconciliation_reports(report_id),
			amount NUMERIC NOT NULL,
			direction TEXT NOT NULL CHECK (direction IN ('increase', 'decrease')),
			reason TEXT NOT NULL,
			ledger_entry_ref TEXT,
			created_by TEXT,
			created_at TIMESTAMP NOT NULL DEFAULT NOW()
		)
	`)
	if err != nil {
		log.Printf("Error creating reconciliation_adjustments table: %v", err)
	}
	return err
}

// createSequenceTable creates the per-fiscal-year report number counter
func createSequenceTable(db *sql.DB) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS report_sequences (
			fiscal_year INT PRIMARY KEY,
			last_seq INT NOT NULL DEFAULT 0
		)
	`)
	if err != nil {
		log.Printf("Error creating report_sequences table: %v", err)
	}
	return err
}

// createCounterpartyTables creates counterparties and their invoice/payment sources
func createCounterpartyTables(db *sql.DB) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS counterparties (
			id SERIAL PRIMARY KEY,
			counterparty_id TEXT NOT NULL UNIQUE,
			name TEXT NOT NULL,
			kind TEXT NOT NULL CHECK (kind IN ('supplier', 'customer')),
			is_active BOOLEAN NOT NULL DEFAULT TRUE,
			created_at TIMESTAMP NOT NULL DEFAULT NOW()
		)
	`)
	if err != nil {
		log.Printf("Error creating counterparties table: %v", err)
		return err
	}

	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS invoices (
			id SERIAL PRIMARY KEY,
			invoice_id TEXT NOT NULL UNIQUE,
			counterparty_id TEXT NOT NULL REFERENCES counterparties(counterparty_id),
			amount NUMERIC NOT NULL,
			date TIMESTAMP NOT NULL
		)
	`)
	if err != nil {
		log.Printf("Error creating invoices table: %v", err)
		return err
	}

	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS payments (
			id SERIAL PRIMARY KEY,
			payment_id TEXT NOT NULL UNIQUE,
			counterparty_id TEXT NOT NULL REFERENCES counterparties(counterparty_id),
			amount NUMERIC NOT NULL,
			date TIMESTAMP NOT NULL
		)
	`)
	if err != nil {
		log.Printf("Error creating payments table: %v", err)
		return err
	}

	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS counterparty_runs (
			id SERIAL PRIMARY KEY,
			counterparty_id TEXT NOT NULL REFERENCES counterparties(counterparty_id),
			period_start TIMESTAMP NOT NULL,
			period_end TIMESTAMP NOT NULL,
			run_at TIMESTAMP NOT NULL DEFAULT NOW()
		)
	`)
	if err != nil {
		log.Printf("Error creating counterparty_runs table: %v", err)
	}
	return err
}
