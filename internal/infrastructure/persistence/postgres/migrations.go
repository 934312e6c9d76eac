// Package postgres implements the PostgreSQL persistence layer of the merit
// portal.
package postgres

// ══════════════════════════════════════════════════════════════════════════════
// MIGRATION 001: CREATE PROFILES
// ══════════════════════════════════════════════════════════════════════════════

const migration001 = `
-- Migration: Create student and counselor profiles
-- Version: 001

-- Students: profile plus the score record. Score columns are NUMERIC and
-- never floats; academic_comprehensive and total_score stay NULL until the
-- counselor sets the academic comprehensive score.
CREATE TABLE IF NOT EXISTS students (
    id UUID PRIMARY KEY,
    student_number VARCHAR(20) NOT NULL UNIQUE,
    full_name VARCHAR(100) NOT NULL,
    college VARCHAR(30) NOT NULL,
    grade INTEGER NOT NULL,
    major VARCHAR(100) NOT NULL,
    phone VARCHAR(20) NOT NULL DEFAULT '',
    email VARCHAR(254) NOT NULL UNIQUE,
    academic_comprehensive NUMERIC(10,1),
    academic_expertise NUMERIC(10,1) NOT NULL DEFAULT 0,
    comprehensive_performance NUMERIC(10,1) NOT NULL DEFAULT 0,
    total_score NUMERIC(10,1),
    created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW(),
    updated_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW(),

    CONSTRAINT valid_student_number CHECK (student_number ~ '^\d{10,20}$'),
    CONSTRAINT valid_grade CHECK (grade BETWEEN 2000 AND 2100)
);

CREATE INDEX IF NOT EXISTS idx_students_number ON students(student_number);
CREATE INDEX IF NOT EXISTS idx_students_email ON students(email);
CREATE INDEX IF NOT EXISTS idx_students_cohort ON students(college, grade);

-- Ranking queries: total within a cohort, undefined totals excluded.
CREATE INDEX IF NOT EXISTS idx_students_cohort_total
    ON students(college, grade, total_score DESC)
    WHERE total_score IS NOT NULL;

-- Counselors: one per cohort in practice, the schema does not enforce it.
CREATE TABLE IF NOT EXISTS counselors (
    id UUID PRIMARY KEY,
    employee_id VARCHAR(20) NOT NULL UNIQUE,
    full_name VARCHAR(100) NOT NULL,
    college VARCHAR(30) NOT NULL,
    grade INTEGER NOT NULL,
    created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW(),
    updated_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW(),

    CONSTRAINT valid_employee_id CHECK (employee_id ~ '^[A-Za-z0-9]{4,20}$'),
    CONSTRAINT valid_counselor_grade CHECK (grade BETWEEN 2000 AND 2100)
);

CREATE INDEX IF NOT EXISTS idx_counselors_employee_id ON counselors(employee_id);
CREATE INDEX IF NOT EXISTS idx_counselors_cohort ON counselors(college, grade);
`

// ══════════════════════════════════════════════════════════════════════════════
// MIGRATION 002: CREATE SUBMISSIONS AND RULES
// ══════════════════════════════════════════════════════════════════════════════

const migration002 = `
-- Migration: Create submissions and the scoring rule catalog
-- Version: 002

CREATE TABLE IF NOT EXISTS submissions (
    id UUID PRIMARY KEY,
    student_id UUID NOT NULL REFERENCES students(id) ON DELETE CASCADE,
    category VARCHAR(30) NOT NULL,
    item_name VARCHAR(200) NOT NULL,
    description TEXT NOT NULL DEFAULT '',
    attachment_ref VARCHAR(500) NOT NULL DEFAULT '',
    self_rating NUMERIC(10,1) NOT NULL,
    status VARCHAR(20) NOT NULL DEFAULT 'pending',
    awarded_score NUMERIC(10,1),
    reject_reason TEXT NOT NULL DEFAULT '',
    reviewer_id UUID,
    reviewed_at TIMESTAMP WITH TIME ZONE,
    created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW(),
    updated_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW(),

    CONSTRAINT valid_status CHECK (status IN ('pending', 'approved', 'rejected')),
    CONSTRAINT valid_category CHECK (category IN (
        'thesis', 'competition', 'research', 'other_academic',
        'volunteer', 'leadership', 'social_practice', 'other_comprehensive'
    )),
    -- awarded_score travels with the approved status and nowhere else
    CONSTRAINT award_matches_status CHECK (
        (status = 'approved' AND awarded_score IS NOT NULL)
        OR (status <> 'approved' AND awarded_score IS NULL)
    )
);

CREATE INDEX IF NOT EXISTS idx_submissions_student ON submissions(student_id, created_at DESC);
CREATE INDEX IF NOT EXISTS idx_submissions_status ON submissions(status);
CREATE INDEX IF NOT EXISTS idx_submissions_category ON submissions(category);

-- Scoring rule catalog.
CREATE TABLE IF NOT EXISTS rules (
    id UUID PRIMARY KEY,
    rule_type VARCHAR(30) NOT NULL,
    item_name VARCHAR(200) NOT NULL,
    description TEXT NOT NULL DEFAULT '',
    score NUMERIC(10,1) NOT NULL,
    remark VARCHAR(500) NOT NULL DEFAULT '',
    author_id UUID NOT NULL,
    created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW(),
    updated_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW(),

    CONSTRAINT valid_rule_type CHECK (rule_type IN (
        'thesis', 'competition', 'research', 'other_academic',
        'volunteer', 'leadership', 'social_practice', 'other_comprehensive'
    )),
    CONSTRAINT positive_rule_score CHECK (score > 0)
);

CREATE INDEX IF NOT EXISTS idx_rules_type ON rules(rule_type, item_name);
`

// ══════════════════════════════════════════════════════════════════════════════
// MIGRATION 003: CREATE NOTIFICATIONS AND ACCOUNTS
// ══════════════════════════════════════════════════════════════════════════════

const migration003 = `
-- Migration: Create the notification outbox and login accounts
-- Version: 003

-- Append-only outbox; only the read flag is ever updated.
CREATE TABLE IF NOT EXISTS notifications (
    id UUID PRIMARY KEY,
    recipient_id UUID NOT NULL,
    type VARCHAR(30) NOT NULL,
    title VARCHAR(200) NOT NULL DEFAULT '',
    message TEXT NOT NULL,
    read BOOLEAN NOT NULL DEFAULT FALSE,
    created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW(),

    CONSTRAINT valid_notification_type CHECK (type IN (
        'submission_outcome', 'rule_change', 'system'
    ))
);

CREATE INDEX IF NOT EXISTS idx_notifications_recipient ON notifications(recipient_id, created_at DESC);
CREATE INDEX IF NOT EXISTS idx_notifications_unread
    ON notifications(recipient_id)
    WHERE read = FALSE;

-- Login accounts for all three roles. profile_id points at a student or
-- counselor row; it is NULL for admin accounts.
CREATE TABLE IF NOT EXISTS accounts (
    id UUID PRIMARY KEY,
    username VARCHAR(64) NOT NULL UNIQUE,
    password_hash VARCHAR(100) NOT NULL,
    role VARCHAR(20) NOT NULL,
    profile_id UUID,
    created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW(),
    updated_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW(),

    CONSTRAINT valid_role CHECK (role IN ('student', 'counselor', 'admin'))
);

CREATE INDEX IF NOT EXISTS idx_accounts_username ON accounts(username);
CREATE INDEX IF NOT EXISTS idx_accounts_profile ON accounts(profile_id) WHERE profile_id IS NOT NULL;
`

