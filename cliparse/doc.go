// Copyright (c) 2025 The Campus Vote Authors.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package cliparse handles configuration from CLI flags and environment variables.

CLI flags take precedence over environment variables.

Required settings:

  - DATABASE_URL (-d): PostgreSQL connection string
  - JWT_SECRET (--jwt-secret): Access token signing secret
  - ADMIN_EMAIL (--admin-email): The one email allowed to register as admin

Optional settings:

  - PORT (-p): Server port (default: 3000)
  - SWEEP_INTERVAL (--sweep-interval): Election status sweep cadence
    (default: 1m). The sweep is a convenience; vote attempts reconcile
    election status on their own regardless of cadence.
*/
package cliparse
