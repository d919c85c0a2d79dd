package canvas

import "context"

// withOptimisticUpdate is the shared try/call/reload triplet behind
// every mutation: apply the local change immediately, issue the remote
// call off the update goroutine, and on failure repair the affected
// kind from a fresh server list. The server's view always wins.
func (c *Canvas) withOptimisticUpdate(op string, local func(), remote func(ctx context.Context) (completion, error), kind Kind) {
	if local != nil {
		local()
		c.publish()
	}
	run := func() {
		ctx, cancel := callCtx()
		defer cancel()
		onSuccess, err := remote(ctx)
		if err != nil {
			c.log.Warnw("persistence call failed, reloading", "op", op, "kind", kind, "error", err)
			repair, rerr := c.reload(ctx, kind)
			if rerr != nil {
				c.log.Errorw("reload after failed call also failed", "op", op, "kind", kind, "error", rerr)
				c.complete(func(cv *Canvas) {
					cv.slog.Add("store", "reload_failed", "%s: %v", kind, rerr)
				})
				return
			}
			c.complete(func(cv *Canvas) {
				cv.slog.Add("store", "rolled_back", "%s after failed %s", kind, op)
				repair(cv)
				cv.publish()
			})
			return
		}
		c.complete(func(cv *Canvas) {
			if onSuccess != nil {
				onSuccess(cv)
			}
			cv.publish()
		})
	}
	if c.synchronous {
		run()
		return
	}
	go run()
}

// reload fetches one kind's full list and returns the completion that
// swaps it into the registry.
func (c *Canvas) reload(ctx context.Context, kind Kind) (completion, error) {
	switch kind {
	case KindToken:
		list, err := c.store.ListTokens(ctx, c.mapInfo.ID)
		if err != nil {
			return nil, err
		}
		return func(cv *Canvas) { cv.reg.ReplaceTokens(list) }, nil
	case KindLight:
		list, err := c.store.ListLights(ctx, c.mapInfo.ID)
		if err != nil {
			return nil, err
		}
		return func(cv *Canvas) { cv.reg.ReplaceLights(list) }, nil
	case KindTrap:
		list, err := c.store.ListTraps(ctx, c.mapInfo.ID)
		if err != nil {
			return nil, err
		}
		return func(cv *Canvas) { cv.reg.ReplaceTraps(list) }, nil
	case KindPoi:
		list, err := c.store.ListPois(ctx, c.mapInfo.ID)
		if err != nil {
			return nil, err
		}
		return func(cv *Canvas) { cv.reg.ReplacePois(list) }, nil
	}
	return func(*Canvas) {}, nil
}
