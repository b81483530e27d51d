package store

import (
	"context"

	"go.uber.org/zap"
)

// migrate runs the one-time flat-file seed into the primary backend. For
// each kind that loaded empty from the primary, records found in the
// corresponding flat file are batch-written to the primary and merged into
// memory. The merge happens even when the write fails, so memory can
// temporarily believe in records the database does not hold; that window is
// logged and closes at the next successful persist. When both sources hold
// records the database wins and the file is never consulted.
func (s *Store) migrate(ctx context.Context) {
	if s.primary == nil {
		return
	}

	if s.fromPrimary[KindUsers] && len(s.users) == 0 {
		fileUsers, err := s.files.LoadUsers(ctx)
		if err != nil {
			s.logger.Warn("skipping user migration, flat file unreadable", zap.Error(err))
		} else if len(fileUsers) > 0 {
			if err := s.primary.SaveUsers(ctx, fileUsers); err != nil {
				s.logger.Error("user migration write failed, memory and database diverge until next persist", zap.Error(err))
			}
			for uid, u := range fileUsers {
				s.users[uid] = u
			}
			s.logger.Info("migrated users from flat file", zap.Int("count", len(fileUsers)))
		}
	}

	if s.fromPrimary[KindProducts] && len(s.products) == 0 {
		fileProducts, err := s.files.LoadProducts(ctx)
		if err != nil {
			s.logger.Warn("skipping product migration, flat file unreadable", zap.Error(err))
		} else if len(fileProducts) > 0 {
			if err := s.primary.SaveProducts(ctx, fileProducts); err != nil {
				s.logger.Error("product migration write failed, memory and database diverge until next persist", zap.Error(err))
			}
			s.products = append(s.products, fileProducts...)
			s.logger.Info("migrated products from flat file", zap.Int("count", len(fileProducts)))
		}
	}

	if s.fromPrimary[KindOrders] && len(s.orders) == 0 {
		fileOrders, err := s.files.LoadOrders(ctx)
		if err != nil {
			s.logger.Warn("skipping order migration, flat file unreadable", zap.Error(err))
		} else if len(fileOrders) > 0 {
			if err := s.primary.SaveOrders(ctx, fileOrders); err != nil {
				s.logger.Error("order migration write failed, memory and database diverge until next persist", zap.Error(err))
			}
			s.orders = append(s.orders, fileOrders...)
			s.logger.Info("migrated orders from flat file", zap.Int("count", len(fileOrders)))
		}
	}

	if s.fromPrimary[KindAgriculturists] && len(s.agriculturists) == 0 {
		fileAgriculturists, err := s.files.LoadAgriculturists(ctx)
		if err != nil {
			s.logger.Warn("skipping agriculturist migration, flat file unreadable", zap.Error(err))
		} else if len(fileAgriculturists) > 0 {
			if err := s.primary.SaveAgriculturists(ctx, fileAgriculturists); err != nil {
				s.logger.Error("agriculturist migration write failed, memory and database diverge until next persist", zap.Error(err))
			}
			s.agriculturists = append(s.agriculturists, fileAgriculturists...)
			s.logger.Info("migrated agriculturists from flat file", zap.Int("count", len(fileAgriculturists)))
		}
	}
}
