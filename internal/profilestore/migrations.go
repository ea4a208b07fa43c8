package profilestore

const schema = `
CREATE TABLE IF NOT EXISTS profiles (
    name TEXT PRIMARY KEY,
    path TEXT NOT NULL,
    cpus TEXT NOT NULL,
    priority TEXT,
    retry_budget INTEGER DEFAULT 0,
    transient BOOLEAN DEFAULT FALSE,
    created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
    updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_profiles_transient ON profiles(transient);
`
