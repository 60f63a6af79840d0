package services

import (
	"sort"
	"sync"
)

// keyedMutex 按整數鍵分配互斥鎖，封住「先檢查再寫入」的競態
type keyedMutex struct {
	mu    sync.Mutex
	locks map[int]*sync.Mutex
}

func newKeyedMutex() *keyedMutex {
	return &keyedMutex{locks: make(map[int]*sync.Mutex)}
}

func (k *keyedMutex) get(id int) *sync.Mutex {
	k.mu.Lock()
	defer k.mu.Unlock()
	if lock, ok := k.locks[id]; ok {
		return lock
	}
	lock := &sync.Mutex{}
	k.locks[id] = lock
	return lock
}

// lock 取得單一鍵的鎖，回傳解鎖函式
func (k *keyedMutex) lock(id int) func() {
	lock := k.get(id)
	lock.Lock()
	return lock.Unlock
}

// lockAll 依鍵升冪取得多把鎖，固定順序避免死鎖
func (k *keyedMutex) lockAll(ids ...int) func() {
	sorted := append([]int(nil), ids...)
	sort.Ints(sorted)

	locked := make([]*sync.Mutex, 0, len(sorted))
	seen := make(map[int]bool, len(sorted))
	for _, id := range sorted {
		if seen[id] {
			continue
		}
		seen[id] = true
		lock := k.get(id)
		lock.Lock()
		locked = append(locked, lock)
	}

	return func() {
		for i := len(locked) - 1; i >= 0; i-- {
			locked[i].Unlock()
		}
	}
}

var (
	// 兩個警衛同時對同一車位登記進場、或同時審核同一車位的預約時，
	// 必須有一方先完成整個交易
	spaceLocks = newKeyedMutex()

	// 同一台車同時在兩個入口登記進場時，守住全系統最多一筆進行中紀錄
	vehicleLocks = newKeyedMutex()

	// 同一客戶同時建立多筆預約時，守住有效預約數上限
	memberLocks = newKeyedMutex()
)

// 取鎖順序固定為 vehicle → member → space，跨類別不會交錯等待

func lockSpace(spaceID int) func() {
	return spaceLocks.lock(spaceID)
}

// lockSpaces 搬移車位時同時鎖住來源與目的地
func lockSpaces(spaceIDs ...int) func() {
	return spaceLocks.lockAll(spaceIDs...)
}

func lockVehicle(vehicleID int) func() {
	return vehicleLocks.lock(vehicleID)
}

func lockMember(memberID int) func() {
	return memberLocks.lock(memberID)
}
