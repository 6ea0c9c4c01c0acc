package mocks

//go:generate mockery --name RecordStore --srcpkg github.com/aevon-lab/purchase-totals/internal/core/storage --output ./storage --outpkg storagemocks --with-expecter
//go:generate mockery --name OutputStore --srcpkg github.com/aevon-lab/purchase-totals/internal/core/storage --output ./storage --outpkg storagemocks --with-expecter
//go:generate mockery --name TotalReader --srcpkg github.com/aevon-lab/purchase-totals/internal/core/storage --output ./storage --outpkg storagemocks --with-expecter
