package repository

import (
	"context"
	"strings"
)

// ScheduleSearchQuery defines filters & pagination for searching departures.
type ScheduleSearchQuery struct {
	Route      string
	Stop       string
	TimeFilter string
	Page       int
	PageSize   int
}

// PublicScheduleRow is a sanitized search result for guests: a departure
// together with its route name and fare, without operator internals.
type PublicScheduleRow struct {
	ID        uint64  `json:"id"`
	RouteID   uint64  `json:"route_id"`
	RouteName string  `json:"route"`
	Direction string  `json:"direction"`
	BusName   string  `json:"bus"`
	DepartsAt string  `json:"departs_at"`
	FareCents uint64  `json:"fare_per_stop_cents"`
	Fare      float64 `json:"fare_per_stop"`
}

// SearchUpcoming finds departures matching the query.  The Stop filter
// restricts results to routes that serve a stop with a matching name,
// letting passengers search "anything through Kimara".
func (r *ScheduleRepo) SearchUpcoming(ctx context.Context, q ScheduleSearchQuery) ([]PublicScheduleRow, int64, error) {
	where := []string{}
	args := []any{}

	switch strings.ToLower(q.TimeFilter) {
	case "any":
	default:
		where = append(where, "sc.departs_at >= NOW()")
	}

	if q.Route != "" {
		where = append(where, "LOWER(rt.name) LIKE ?")
		args = append(args, "%"+strings.ToLower(q.Route)+"%")
	}
	if q.Stop != "" {
		where = append(where, `EXISTS (
			SELECT 1 FROM route_stops st
			WHERE st.route_id = rt.id AND LOWER(st.name) LIKE ?)`)
		args = append(args, "%"+strings.ToLower(q.Stop)+"%")
	}

	cond := "1=1"
	if len(where) > 0 {
		cond = strings.Join(where, " AND ")
	}

	var total int64
	countSQL := `SELECT COUNT(*)
		FROM schedules sc
		JOIN routes rt ON rt.id = sc.route_id
		JOIN buses b   ON b.id = sc.bus_id
		WHERE ` + cond
	if err := r.db.QueryRowContext(ctx, countSQL, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	limit := q.PageSize
	offset := (q.Page - 1) * q.PageSize

	dataSQL := `SELECT
			sc.id,
			rt.id   AS route_id,
			rt.name AS route_name,
			rt.direction,
			b.name  AS bus_name,
			DATE_FORMAT(sc.departs_at, '%Y-%m-%d %T') AS departs_at,
			COALESCE(sc.fare_per_stop_cents, 0) AS fare_cents
		FROM schedules sc
		JOIN routes rt ON rt.id = sc.route_id
		JOIN buses b   ON b.id = sc.bus_id
		WHERE ` + cond + `
		ORDER BY sc.departs_at ASC
		LIMIT ? OFFSET ?`

	argsData := append(append([]any{}, args...), limit, offset)

	rows, err := r.db.QueryContext(ctx, dataSQL, argsData...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	out := make([]PublicScheduleRow, 0, limit)
	for rows.Next() {
		var d PublicScheduleRow
		if err := rows.Scan(
			&d.ID,
			&d.RouteID,
			&d.RouteName,
			&d.Direction,
			&d.BusName,
			&d.DepartsAt,
			&d.FareCents,
		); err != nil {
			return nil, 0, err
		}
		d.Fare = float64(d.FareCents) / 100.0
		out = append(out, d)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return out, total, nil
}
