package database

import (
	"context"
	"database/sql"
)

// schema creates every table the booking engine uses.  Statements are
// idempotent so Migrate can run on every startup.
//
// Two constraints back the anti-overbooking design: the UNIQUE key on
// (booking_id, seat_id) is the storage-layer backstop behind the
// availability re-check, and the unique booking reference guarantees
// the generator's no-reuse contract.
const schema = `
CREATE TABLE IF NOT EXISTS users (
    id            BIGINT UNSIGNED NOT NULL AUTO_INCREMENT,
    email         VARCHAR(255)    NOT NULL,
    password_hash VARCHAR(100)    NOT NULL,
    full_name     VARCHAR(255)    NOT NULL,
    role          VARCHAR(16)     NOT NULL DEFAULT 'USER',
    created_at    DATETIME        NOT NULL DEFAULT CURRENT_TIMESTAMP,
    PRIMARY KEY (id),
    UNIQUE KEY uq_users_email (email)
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4;

CREATE TABLE IF NOT EXISTS stations (
    id         BIGINT UNSIGNED NOT NULL AUTO_INCREMENT,
    name       VARCHAR(255)    NOT NULL,
    code       VARCHAR(8)      NOT NULL,
    city       VARCHAR(255)    NOT NULL,
    is_active  TINYINT(1)      NOT NULL DEFAULT 1,
    created_at DATETIME        NOT NULL DEFAULT CURRENT_TIMESTAMP,
    PRIMARY KEY (id),
    UNIQUE KEY uq_stations_code (code)
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4;

CREATE TABLE IF NOT EXISTS routes (
    id                   BIGINT UNSIGNED NOT NULL AUTO_INCREMENT,
    departure_station_id BIGINT UNSIGNED NOT NULL,
    arrival_station_id   BIGINT UNSIGNED NOT NULL,
    distance_km          INT UNSIGNED    NOT NULL DEFAULT 0,
    duration_min         INT UNSIGNED    NOT NULL DEFAULT 0,
    is_active            TINYINT(1)      NOT NULL DEFAULT 1,
    created_at           DATETIME        NOT NULL DEFAULT CURRENT_TIMESTAMP,
    PRIMARY KEY (id),
    KEY ix_routes_pair (departure_station_id, arrival_station_id),
    CONSTRAINT fk_routes_departure FOREIGN KEY (departure_station_id) REFERENCES stations (id),
    CONSTRAINT fk_routes_arrival   FOREIGN KEY (arrival_station_id)   REFERENCES stations (id)
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4;

CREATE TABLE IF NOT EXISTS trains (
    id                BIGINT UNSIGNED NOT NULL AUTO_INCREMENT,
    name              VARCHAR(255)    NOT NULL,
    number            VARCHAR(32)     NOT NULL,
    total_seats       INT UNSIGNED    NOT NULL,
    economy_seats     INT UNSIGNED    NOT NULL DEFAULT 0,
    business_seats    INT UNSIGNED    NOT NULL DEFAULT 0,
    first_class_seats INT UNSIGNED    NOT NULL DEFAULT 0,
    status            VARCHAR(16)     NOT NULL DEFAULT 'ACTIVE',
    created_at        DATETIME        NOT NULL DEFAULT CURRENT_TIMESTAMP,
    PRIMARY KEY (id),
    UNIQUE KEY uq_trains_number (number)
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4;

CREATE TABLE IF NOT EXISTS seats (
    id           BIGINT UNSIGNED NOT NULL AUTO_INCREMENT,
    train_id     BIGINT UNSIGNED NOT NULL,
    seat_number  VARCHAR(8)      NOT NULL,
    class        VARCHAR(16)     NOT NULL,
    is_available TINYINT(1)      NOT NULL DEFAULT 1,
    created_at   DATETIME        NOT NULL DEFAULT CURRENT_TIMESTAMP,
    PRIMARY KEY (id),
    UNIQUE KEY uq_seats_train_number (train_id, seat_number),
    CONSTRAINT fk_seats_train FOREIGN KEY (train_id) REFERENCES trains (id)
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4;

CREATE TABLE IF NOT EXISTS schedules (
    id                BIGINT UNSIGNED NOT NULL AUTO_INCREMENT,
    train_id          BIGINT UNSIGNED NOT NULL,
    route_id          BIGINT UNSIGNED NOT NULL,
    departs_at        DATETIME        NOT NULL,
    arrives_at        DATETIME        NOT NULL,
    economy_cents     BIGINT          NOT NULL,
    business_cents    BIGINT          NOT NULL,
    first_class_cents BIGINT          NOT NULL,
    available_seats   INT UNSIGNED    NOT NULL,
    created_at        DATETIME        NOT NULL DEFAULT CURRENT_TIMESTAMP,
    PRIMARY KEY (id),
    KEY ix_schedules_route_departure (route_id, departs_at),
    CONSTRAINT fk_schedules_train FOREIGN KEY (train_id) REFERENCES trains (id),
    CONSTRAINT fk_schedules_route FOREIGN KEY (route_id) REFERENCES routes (id)
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4;

CREATE TABLE IF NOT EXISTS bookings (
    id                 BIGINT UNSIGNED NOT NULL AUTO_INCREMENT,
    reference          CHAR(8)         NOT NULL,
    user_id            BIGINT UNSIGNED NOT NULL,
    schedule_id        BIGINT UNSIGNED NOT NULL,
    passenger_count    INT UNSIGNED    NOT NULL,
    total_amount_cents BIGINT          NOT NULL,
    status             VARCHAR(16)     NOT NULL DEFAULT 'PENDING',
    created_at         DATETIME        NOT NULL DEFAULT CURRENT_TIMESTAMP,
    PRIMARY KEY (id),
    UNIQUE KEY uq_bookings_reference (reference),
    KEY ix_bookings_user (user_id, created_at),
    KEY ix_bookings_schedule_status (schedule_id, status),
    CONSTRAINT fk_bookings_user     FOREIGN KEY (user_id)     REFERENCES users (id),
    CONSTRAINT fk_bookings_schedule FOREIGN KEY (schedule_id) REFERENCES schedules (id)
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4;

CREATE TABLE IF NOT EXISTS passengers (
    id              BIGINT UNSIGNED NOT NULL AUTO_INCREMENT,
    booking_id      BIGINT UNSIGNED NOT NULL,
    first_name      VARCHAR(100)    NOT NULL,
    last_name       VARCHAR(100)    NOT NULL,
    date_of_birth   DATETIME        NOT NULL,
    identity_number VARCHAR(64)     NOT NULL,
    phone           VARCHAR(32)     NOT NULL,
    email           VARCHAR(255)    NOT NULL DEFAULT '',
    created_at      DATETIME        NOT NULL DEFAULT CURRENT_TIMESTAMP,
    PRIMARY KEY (id),
    KEY ix_passengers_booking (booking_id),
    CONSTRAINT fk_passengers_booking FOREIGN KEY (booking_id) REFERENCES bookings (id)
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4;

CREATE TABLE IF NOT EXISTS booking_seats (
    id           BIGINT UNSIGNED NOT NULL AUTO_INCREMENT,
    booking_id   BIGINT UNSIGNED NOT NULL,
    schedule_id  BIGINT UNSIGNED NOT NULL,
    seat_id      BIGINT UNSIGNED NOT NULL,
    passenger_id BIGINT UNSIGNED NOT NULL,
    created_at   DATETIME        NOT NULL DEFAULT CURRENT_TIMESTAMP,
    PRIMARY KEY (id),
    UNIQUE KEY uq_booking_seat (booking_id, seat_id),
    KEY ix_booking_seats_schedule (schedule_id, seat_id),
    CONSTRAINT fk_booking_seats_booking   FOREIGN KEY (booking_id)   REFERENCES bookings (id),
    CONSTRAINT fk_booking_seats_schedule  FOREIGN KEY (schedule_id)  REFERENCES schedules (id),
    CONSTRAINT fk_booking_seats_seat      FOREIGN KEY (seat_id)      REFERENCES seats (id),
    CONSTRAINT fk_booking_seats_passenger FOREIGN KEY (passenger_id) REFERENCES passengers (id)
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4;

CREATE TABLE IF NOT EXISTS payments (
    id             BIGINT UNSIGNED NOT NULL AUTO_INCREMENT,
    booking_id     BIGINT UNSIGNED NOT NULL,
    user_id        BIGINT UNSIGNED NOT NULL,
    amount_cents   BIGINT          NOT NULL,
    method         VARCHAR(32)     NOT NULL,
    status         VARCHAR(16)     NOT NULL,
    transaction_id CHAR(36)        NOT NULL,
    created_at     DATETIME        NOT NULL DEFAULT CURRENT_TIMESTAMP,
    PRIMARY KEY (id),
    UNIQUE KEY uq_payments_booking (booking_id),
    UNIQUE KEY uq_payments_transaction (transaction_id),
    CONSTRAINT fk_payments_booking FOREIGN KEY (booking_id) REFERENCES bookings (id),
    CONSTRAINT fk_payments_user    FOREIGN KEY (user_id)    REFERENCES users (id)
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4;
`

// Migrate applies the schema.  Safe to call on every startup.
func Migrate(ctx context.Context, db *sql.DB) error {
	_, err := db.ExecContext(ctx, schema)
	return err
}
