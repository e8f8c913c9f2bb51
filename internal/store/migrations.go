package store

const schema = `
CREATE TABLE IF NOT EXISTS clubs (
    id                    INTEGER PRIMARY KEY AUTOINCREMENT,
    name                  TEXT NOT NULL UNIQUE,
    short_name            TEXT NOT NULL DEFAULT '',
    name_key              TEXT NOT NULL DEFAULT '',
    short_key             TEXT NOT NULL DEFAULT '',
    division              INTEGER NOT NULL,
    location              TEXT NOT NULL DEFAULT '',
    emblem_url            TEXT NOT NULL DEFAULT '',
    team_color            TEXT NOT NULL DEFAULT '',
    website_url           TEXT NOT NULL DEFAULT '',
    description           TEXT NOT NULL DEFAULT '',
    stadium_name          TEXT NOT NULL DEFAULT '',
    stadium_capacity      INTEGER NOT NULL DEFAULT 15000,
    home_attendance       REAL NOT NULL DEFAULT 0,

    win_league1           INTEGER NOT NULL DEFAULT 0,
    win_league2           INTEGER NOT NULL DEFAULT 0,
    win_league3           INTEGER NOT NULL DEFAULT 0,
    win_national_cup      INTEGER NOT NULL DEFAULT 0,
    win_league_cup        INTEGER NOT NULL DEFAULT 0,
    win_continental       INTEGER NOT NULL DEFAULT 0,
    win_continental2      INTEGER NOT NULL DEFAULT 0,

    strength_long_term    REAL NOT NULL DEFAULT 0.5,
    strength_short_term   REAL NOT NULL DEFAULT 0.5,
    domestic_titles       REAL NOT NULL DEFAULT 0,
    international_titles  REAL NOT NULL DEFAULT 0,
    popularity_score      REAL NOT NULL DEFAULT 0,
    supporter_heat        REAL NOT NULL DEFAULT 0.5,
    financial_power       REAL NOT NULL DEFAULT 0.5,
    ticket_availability   REAL NOT NULL DEFAULT 0.5,
    play_style_attack     REAL NOT NULL DEFAULT 0.5,
    play_style_defense    REAL NOT NULL DEFAULT 0.5,
    youth_promotion_score REAL NOT NULL DEFAULT 0
);

CREATE INDEX IF NOT EXISTS idx_clubs_division ON clubs(division);
CREATE INDEX IF NOT EXISTS idx_clubs_name_key ON clubs(name_key);
CREATE INDEX IF NOT EXISTS idx_clubs_short_key ON clubs(short_key);

CREATE TABLE IF NOT EXISTS questions (
    id   INTEGER PRIMARY KEY,
    text TEXT NOT NULL,
    ord  INTEGER NOT NULL DEFAULT 0
);

CREATE TABLE IF NOT EXISTS choices (
    id          INTEGER PRIMARY KEY,
    question_id INTEGER NOT NULL REFERENCES questions(id) ON DELETE CASCADE,
    text        TEXT NOT NULL,
    ord         INTEGER NOT NULL DEFAULT 0
);

CREATE INDEX IF NOT EXISTS idx_choices_question ON choices(question_id);

CREATE TABLE IF NOT EXISTS question_choice_weights (
    id           INTEGER PRIMARY KEY AUTOINCREMENT,
    question_id  INTEGER NOT NULL REFERENCES questions(id) ON DELETE CASCADE,
    choice_id    INTEGER NOT NULL REFERENCES choices(id) ON DELETE CASCADE,
    feature_name TEXT NOT NULL,
    weight       REAL NOT NULL DEFAULT 0
);

CREATE INDEX IF NOT EXISTS idx_weights_answer ON question_choice_weights(question_id, choice_id);
`
