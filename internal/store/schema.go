// Admitra - College Admission Catalog and Relationship Graph Engine
// Copyright 2026 Admitra Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/admitra/admitra

package store

import (
	"context"
	"fmt"
)

// schemaDDL bootstraps the catalog tables. Link tables carry the
// denormalized composite_college_key ("<name>|<region>") that the resolver's
// composite-key strategy and the integrity checker's mismatch sweep rely on.
const schemaDDL = `
CREATE TABLE IF NOT EXISTS colleges (
    id       VARCHAR PRIMARY KEY,
    name     VARCHAR NOT NULL,
    region   VARCHAR NOT NULL,
    locality VARCHAR DEFAULT '',
    category VARCHAR DEFAULT '',
    rank     INTEGER DEFAULT 0
);

CREATE TABLE IF NOT EXISTS courses (
    id         VARCHAR PRIMARY KEY,
    college_id VARCHAR NOT NULL,
    name       VARCHAR NOT NULL,
    stream     VARCHAR DEFAULT '',
    branch     VARCHAR DEFAULT '',
    seats      INTEGER DEFAULT 0
);

CREATE TABLE IF NOT EXISTS cutoff_records (
    id           VARCHAR PRIMARY KEY,
    college_id   VARCHAR NOT NULL,
    course_id    VARCHAR NOT NULL,
    year         INTEGER NOT NULL,
    category     VARCHAR NOT NULL,
    opening_rank INTEGER DEFAULT 0,
    closing_rank INTEGER DEFAULT 0
);

CREATE TABLE IF NOT EXISTS regions (
    code VARCHAR PRIMARY KEY,
    name VARCHAR NOT NULL
);

CREATE TABLE IF NOT EXISTS region_college_link (
    college_id            VARCHAR NOT NULL,
    region_id             VARCHAR NOT NULL,
    composite_college_key VARCHAR NOT NULL,
    PRIMARY KEY (college_id, region_id)
);

CREATE TABLE IF NOT EXISTS region_course_college_link (
    college_id VARCHAR NOT NULL,
    course_id  VARCHAR NOT NULL,
    region_id  VARCHAR NOT NULL,
    stream     VARCHAR DEFAULT '',
    PRIMARY KEY (college_id, course_id, region_id)
);

CREATE TABLE IF NOT EXISTS interactions (
    user_id     VARCHAR NOT NULL,
    entity_id   VARCHAR NOT NULL,
    entity_type VARCHAR NOT NULL,
    action      VARCHAR NOT NULL,
    occurred_at BIGINT NOT NULL
);

CREATE TABLE IF NOT EXISTS user_preferences (
    user_id  VARCHAR PRIMARY KEY,
    region   VARCHAR DEFAULT '',
    stream   VARCHAR DEFAULT '',
    category VARCHAR DEFAULT ''
);
`

func (s *Store) initSchema(ctx context.Context) error {
	return s.do(func() error {
		if _, err := s.db.ExecContext(ctx, schemaDDL); err != nil {
			return fmt.Errorf("init schema: %w", err)
		}
		return nil
	})
}

// SeedDemoData loads a small deterministic catalog for development and
// demos. Idempotent: skips when colleges already exist.
func (s *Store) SeedDemoData(ctx context.Context) error {
	return s.do(func() error {
		var n int
		if err := s.db.QueryRowContext(ctx, `SELECT count(*) FROM colleges`).Scan(&n); err != nil {
			return fmt.Errorf("seed precheck: %w", err)
		}
		if n > 0 {
			return nil
		}
		_, err := s.db.ExecContext(ctx, seedDML)
		if err != nil {
			return fmt.Errorf("seed demo data: %w", err)
		}
		return nil
	})
}

const seedDML = `
INSERT INTO regions VALUES
    ('KA', 'Karnataka'),
    ('MH', 'Maharashtra'),
    ('TN', 'Tamil Nadu');

INSERT INTO colleges VALUES
    ('col-001', 'A J Institute of Engineering and Technology', 'KA', 'Mangalore', 'private', 210),
    ('col-002', 'National Institute of Technology Karnataka', 'KA', 'Surathkal', 'government', 13),
    ('col-003', 'College of Engineering Pune', 'MH', 'Pune', 'government', 45),
    ('col-004', 'PSG College of Technology', 'TN', 'Coimbatore', 'private', 63),
    ('col-005', 'RV College of Engineering', 'KA', 'Bengaluru', 'private', 68);

INSERT INTO courses VALUES
    ('crs-001', 'col-001', 'Computer Science and Engineering', 'engineering', 'CSE', 120),
    ('crs-002', 'col-001', 'Mechanical Engineering', 'engineering', 'ME', 60),
    ('crs-003', 'col-002', 'Computer Science and Engineering', 'engineering', 'CSE', 180),
    ('crs-004', 'col-003', 'Electronics and Telecommunication', 'engineering', 'ENTC', 120),
    ('crs-005', 'col-004', 'Computer Science and Engineering', 'engineering', 'CSE', 120),
    ('crs-006', 'col-005', 'Information Science and Engineering', 'engineering', 'ISE', 120);

INSERT INTO cutoff_records VALUES
    ('cut-001', 'col-001', 'crs-001', 2025, 'GM', 18450, 32100),
    ('cut-002', 'col-002', 'crs-003', 2025, 'GM', 101, 1450),
    ('cut-003', 'col-003', 'crs-004', 2025, 'OPEN', 2100, 5800),
    ('cut-004', 'col-005', 'crs-006', 2025, 'GM', 3900, 9200);

INSERT INTO region_college_link VALUES
    ('col-001', 'KA', 'a j institute of engineering and technology|KA'),
    ('col-002', 'KA', 'national institute of technology karnataka|KA'),
    ('col-003', 'MH', 'college of engineering pune|MH'),
    ('col-004', 'TN', 'psg college of technology|TN'),
    ('col-005', 'KA', 'rv college of engineering|KA');

INSERT INTO region_course_college_link VALUES
    ('col-001', 'crs-001', 'KA', 'engineering'),
    ('col-001', 'crs-002', 'KA', 'engineering'),
    ('col-002', 'crs-003', 'KA', 'engineering'),
    ('col-003', 'crs-004', 'MH', 'engineering'),
    ('col-004', 'crs-005', 'TN', 'engineering'),
    ('col-005', 'crs-006', 'KA', 'engineering');

INSERT INTO interactions VALUES
    ('user-1', 'col-001', 'college', 'favorite', epoch(now())::BIGINT - 86400),
    ('user-1', 'col-005', 'college', 'favorite', epoch(now())::BIGINT - 86400),
    ('user-2', 'col-001', 'college', 'select', epoch(now())::BIGINT - 172800),
    ('user-2', 'col-002', 'college', 'select', epoch(now())::BIGINT - 172800),
    ('user-3', 'col-002', 'college', 'favorite', epoch(now())::BIGINT - 259200);

INSERT INTO user_preferences VALUES
    ('user-1', 'KA', 'engineering', 'GM');
`
