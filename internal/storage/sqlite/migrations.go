package sqlite

import "database/sql"

// migrations contains the SQL statements to set up the database schema.
// These run on startup to ensure tables exist.
// IMPORTANT: households must be created before every other table due to
// foreign key constraints; expenses before payment_logs likewise.
const schema = `
CREATE TABLE IF NOT EXISTS households (
    id TEXT PRIMARY KEY,
    name TEXT NOT NULL,
    created_at INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS household_members (
    id TEXT PRIMARY KEY,
    household_id TEXT NOT NULL,
    display_name TEXT NOT NULL DEFAULT '',
    email TEXT NOT NULL DEFAULT '',
    joined_at INTEGER NOT NULL,
    FOREIGN KEY (household_id) REFERENCES households(id) ON DELETE CASCADE
);

CREATE TABLE IF NOT EXISTS chores (
    id TEXT PRIMARY KEY,
    household_id TEXT NOT NULL,
    name TEXT NOT NULL,
    frequency TEXT NOT NULL,
    current_assignee_id TEXT NOT NULL,
    last_completed_at INTEGER NOT NULL DEFAULT 0,
    created_at INTEGER NOT NULL,
    FOREIGN KEY (household_id) REFERENCES households(id) ON DELETE CASCADE
);

CREATE TABLE IF NOT EXISTS chore_completions (
    id TEXT PRIMARY KEY,
    chore_id TEXT NOT NULL,
    completed_by_id TEXT NOT NULL,
    next_assignee_id TEXT NOT NULL,
    completed_at INTEGER NOT NULL,
    FOREIGN KEY (chore_id) REFERENCES chores(id) ON DELETE CASCADE
);

CREATE TABLE IF NOT EXISTS shopping_items (
    id TEXT PRIMARY KEY,
    household_id TEXT NOT NULL,
    name TEXT NOT NULL,
    quantity INTEGER NOT NULL DEFAULT 1,
    is_purchased INTEGER NOT NULL DEFAULT 0,
    flagged_by TEXT,
    assigned_member_index INTEGER,
    created_at INTEGER NOT NULL,
    FOREIGN KEY (household_id) REFERENCES households(id) ON DELETE CASCADE
);

CREATE TABLE IF NOT EXISTS shopping_logs (
    id TEXT PRIMARY KEY,
    household_id TEXT NOT NULL,
    action TEXT NOT NULL,
    item_name TEXT NOT NULL,
    member_name TEXT NOT NULL,
    created_at INTEGER NOT NULL,
    FOREIGN KEY (household_id) REFERENCES households(id) ON DELETE CASCADE
);

CREATE TABLE IF NOT EXISTS expenses (
    id TEXT PRIMARY KEY,
    household_id TEXT NOT NULL,
    description TEXT NOT NULL,
    amount REAL NOT NULL,
    paid_by TEXT NOT NULL,
    split_type TEXT NOT NULL,
    bank_details TEXT NOT NULL DEFAULT '',
    created_at INTEGER NOT NULL,
    FOREIGN KEY (household_id) REFERENCES households(id) ON DELETE CASCADE
);

CREATE TABLE IF NOT EXISTS expense_debtors (
    expense_id TEXT NOT NULL,
    position INTEGER NOT NULL,
    name TEXT NOT NULL,
    custom_amount REAL,
    PRIMARY KEY (expense_id, position),
    FOREIGN KEY (expense_id) REFERENCES expenses(id) ON DELETE CASCADE
);

CREATE TABLE IF NOT EXISTS payment_logs (
    id TEXT PRIMARY KEY,
    household_id TEXT NOT NULL,
    expense_id TEXT NOT NULL,
    member_name TEXT NOT NULL,
    action TEXT NOT NULL,
    expense_description TEXT NOT NULL,
    created_at INTEGER NOT NULL,
    FOREIGN KEY (expense_id) REFERENCES expenses(id) ON DELETE CASCADE
);

CREATE INDEX IF NOT EXISTS idx_members_household_id ON household_members(household_id);
CREATE INDEX IF NOT EXISTS idx_chores_household_id ON chores(household_id);
CREATE INDEX IF NOT EXISTS idx_completions_chore_id ON chore_completions(chore_id);
CREATE INDEX IF NOT EXISTS idx_items_household_id ON shopping_items(household_id);
CREATE INDEX IF NOT EXISTS idx_shopping_logs_household_id ON shopping_logs(household_id);
CREATE INDEX IF NOT EXISTS idx_expenses_household_id ON expenses(household_id);
CREATE INDEX IF NOT EXISTS idx_payment_logs_expense_id ON payment_logs(expense_id);
CREATE INDEX IF NOT EXISTS idx_payment_logs_household_id ON payment_logs(household_id);
`

// runMigrations executes the schema setup.
func runMigrations(db *sql.DB) error {
	_, err := db.Exec(schema)
	return err
}
